// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// NOTIFICATION TOAST
// =============================================================================

// ToastDuration is how long a notice stays on screen.
const ToastDuration = 4 * time.Second

// toastExpiredMsg dismisses a toast after its duration.
type toastExpiredMsg struct {
	id int
}

// Toast renders transient notifications in a corner overlay. Every
// success and failure the auth controller emits flows through here.
type Toast struct {
	notice  auth.Notice
	visible bool
	id      int
}

// NewToast creates an empty toast.
func NewToast() Toast {
	return Toast{}
}

// Show displays a notice and returns the expiry command.
func (t *Toast) Show(n auth.Notice) tea.Cmd {
	t.notice = n
	t.visible = true
	t.id++
	id := t.id
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update handles expiry messages. A new Show supersedes older timers.
func (t *Toast) Update(msg tea.Msg) {
	if expired, ok := msg.(toastExpiredMsg); ok && expired.id == t.id {
		t.visible = false
	}
}

// Visible reports whether a notice is on screen.
func (t *Toast) Visible() bool { return t.visible }

// Message returns the current notice text.
func (t *Toast) Message() string { return t.notice.Message }

// View renders the toast, or "" when hidden.
func (t *Toast) View() string {
	if !t.visible {
		return ""
	}

	var style lipgloss.Style
	switch t.notice.Level {
	case auth.NoticeSuccess:
		style = lipgloss.NewStyle().Foreground(styles.Emerald).Border(lipgloss.RoundedBorder()).BorderForeground(styles.Emerald)
	case auth.NoticeError:
		style = lipgloss.NewStyle().Foreground(styles.Rose).Border(lipgloss.RoundedBorder()).BorderForeground(styles.Rose)
	default:
		style = lipgloss.NewStyle().Foreground(styles.Cyan).Border(lipgloss.RoundedBorder()).BorderForeground(styles.Cyan)
	}
	return style.Padding(0, 1).Render(t.notice.Message)
}
