// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// ApplyTheme pins the light/dark rendering of the adaptive palette.
// "auto" asks the terminal for its background color.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// =============================================================================
// SHARED STYLES
// =============================================================================

// Title is the screen heading style.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(Blue).
	MarginBottom(1)

// Subtitle is the secondary heading style.
var Subtitle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// Label styles form field labels.
var Label = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(16)

// Hint styles key hints and footers.
var Hint = lipgloss.NewStyle().
	Foreground(TextMuted)

// ErrorText styles inline error messages.
var ErrorText = lipgloss.NewStyle().
	Foreground(Rose)

// SuccessText styles inline success messages.
var SuccessText = lipgloss.NewStyle().
	Foreground(Emerald)

// WarnText styles inline warnings.
var WarnText = lipgloss.NewStyle().
	Foreground(Amber)

// Panel frames a focused content block.
var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Overlay).
	Padding(1, 2)

// ActiveTab styles the selected navigation entry.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextInverse).
	Background(Blue).
	Padding(0, 1)

// InactiveTab styles unselected navigation entries.
var InactiveTab = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Padding(0, 1)

// StatusBar styles the bottom status line.
var StatusBar = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(SurfaceDim).
	Padding(0, 1)

// TableHeader styles listing column headers.
var TableHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextSecondary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Overlay)

// TableSelected styles the highlighted listing row.
var TableSelected = lipgloss.NewStyle().
	Foreground(TextInverse).
	Background(Blue)

// StatusPaid colors a paid/active value.
var StatusPaid = lipgloss.NewStyle().Foreground(Emerald)

// StatusUnpaid colors an unpaid/suspended value.
var StatusUnpaid = lipgloss.NewStyle().Foreground(Rose)
