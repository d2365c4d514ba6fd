// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
	"github.com/jeranaias/efine-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom line: signed-in identity on the left, key
// hints on the right.
type StatusBar struct {
	Width int
}

// View renders the bar for the given user (nil when signed out).
func (s StatusBar) View(user *model.AdminUser, hints string) string {
	left := "not signed in"
	if user != nil {
		left = user.Name + " · " + user.Role.Label()
		if !user.IsTwoFactorEnabled {
			left += " · " + styles.WarnText.Render("2FA off")
		}
	}

	if s.Width <= 0 {
		return styles.StatusBar.Render(left)
	}

	gap := s.Width - runewidth.StringWidth(stripANSI(left)) - runewidth.StringWidth(hints) - 2
	if gap < 1 {
		gap = 1
		left = util.TruncateWidth(stripANSI(left), s.Width-runewidth.StringWidth(hints)-3)
	}
	line := left + lipgloss.NewStyle().Render(spaces(gap)) + styles.Hint.Render(hints)
	return styles.StatusBar.Width(s.Width).Render(line)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// stripANSI removes escape sequences for width math.
func stripANSI(s string) string {
	out := make([]rune, 0, len(s))
	inSeq := false
	for _, r := range s {
		switch {
		case inSeq:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inSeq = false
			}
		case r == '\x1b':
			inSeq = true
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
