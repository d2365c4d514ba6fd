// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/ui/components"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
	"github.com/jeranaias/efine-tui/internal/util"
)

// =============================================================================
// DASHBOARD
// =============================================================================

func (m *Model) loadDashboard() tea.Cmd {
	tag := m.tag
	client := m.client
	return tea.Batch(
		m.loader.Start("loading dashboard"),
		func() tea.Msg {
			dash, err := client.GetDashboard(context.Background())
			return dashboardMsg{tag: tag, dash: dash, err: err}
		},
	)
}

func (m Model) viewDashboard() string {
	if m.dash == nil {
		return styles.Panel.Render(styles.Hint.Render("loading dashboard... (r to retry)"))
	}
	stats := m.dash.Stats

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Fines", fmt.Sprintf("%d", stats.TotalFines), fmt.Sprintf("%d this month", stats.FinesThisMonth)),
		statCard("Revenue", components.Money(stats.TotalRevenue), fmt.Sprintf("%d pending", stats.PendingPayments)),
		statCard("Drivers", fmt.Sprintf("%d", stats.TotalDrivers), fmt.Sprintf("%d suspended", stats.SuspendedDrivers)),
		statCard("Officers", fmt.Sprintf("%d", stats.TotalOfficers), fmt.Sprintf("%d offense types", stats.TotalOffenseTypes)),
	)

	var recent []string
	recent = append(recent, styles.Subtitle.Render("Recent Fines"))
	if len(m.dash.RecentActivity.RecentFines) == 0 {
		recent = append(recent, styles.Hint.Render("none"))
	}
	for i, f := range m.dash.RecentActivity.RecentFines {
		if i >= 5 {
			break
		}
		recent = append(recent, fmt.Sprintf("  %s  %-24s %-12s %s",
			components.Date(f.Date), util.TruncateWidth(f.OffenseName, 24), f.LicenseNumber,
			components.Money(f.Amount)))
	}
	recent = append(recent, "", styles.Subtitle.Render("Recent Payments"))
	if len(m.dash.RecentActivity.RecentPayments) == 0 {
		recent = append(recent, styles.Hint.Render("none"))
	}
	for i, p := range m.dash.RecentActivity.RecentPayments {
		if i >= 5 {
			break
		}
		when := p.Date
		if p.PaidAt != nil {
			when = *p.PaidAt
		}
		recent = append(recent, fmt.Sprintf("  %s  %-24s %-12s %s",
			components.Date(when), util.TruncateWidth(p.OffenseName, 24), p.LicenseNumber,
			components.Money(p.Amount)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, recent...)),
		styles.Hint.Render("r refresh"),
	)
}

func statCard(title, value, sub string) string {
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Hint.Render(title),
		styles.Title.Render(value),
		styles.Subtitle.Render(sub),
	))
}

