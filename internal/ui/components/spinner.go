// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// LOADING SPINNER
// =============================================================================

// Loader wraps the bubbles spinner with a label for in-flight requests.
type Loader struct {
	spinner spinner.Model
	label   string
	active  bool
}

// NewLoader creates an idle loader.
func NewLoader() Loader {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)
	return Loader{spinner: s}
}

// Start activates the loader and returns its tick command.
func (l *Loader) Start(label string) tea.Cmd {
	l.label = label
	l.active = true
	return l.spinner.Tick
}

// Stop deactivates the loader.
func (l *Loader) Stop() {
	l.active = false
	l.label = ""
}

// Active reports whether a request is in flight.
func (l *Loader) Active() bool { return l.active }

// Update advances the animation while active.
func (l *Loader) Update(msg tea.Msg) tea.Cmd {
	if !l.active {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner and label, or "" when idle.
func (l *Loader) View() string {
	if !l.active {
		return ""
	}
	return l.spinner.View() + " " + styles.Hint.Render(l.label)
}
