// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - status command implementation.
//
// Command: status
// Short:   Display connection, session and archive status
// Aliases: s
//
// Examples:
//   efine status              Show status
//   efine status --json       Status in JSON format

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Width(14)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	statusBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// statusReport is the machine-readable shape of the status command.
type statusReport struct {
	BaseURL            string `json:"baseUrl"`
	Reachable          bool   `json:"reachable"`
	SignedIn           bool   `json:"signedIn"`
	Name               string `json:"name,omitempty"`
	Role               string `json:"role,omitempty"`
	IsTwoFactorEnabled bool   `json:"isTwoFactorEnabled,omitempty"`
	ArchivedReports    int    `json:"archivedReports"`
}

// HandleStatus shows backend reachability, session state and the local
// report archive size.
func HandleStatus(args *Args) int {
	const command = "status"

	e, err := newEnv()
	if err != nil {
		return fail(command, args.JSON, err)
	}

	report := statusReport{BaseURL: e.cfg.API.BaseURL}

	if user, ok := e.ctrl.User(); ok {
		report.SignedIn = true
		report.Name = user.Name
		report.Role = user.Role.Label()
		report.IsTwoFactorEnabled = user.IsTwoFactorEnabled
	}

	// Reachability check: the dashboard needs a valid token, the
	// station list does not. Either answering counts as reachable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := e.client.ListStations(ctx); err == nil {
		report.Reachable = true
	}

	if archive, err := openArchive(); err == nil {
		if list, err := archive.ListReports(ctx); err == nil {
			report.ArchivedReports = len(list)
		}
		archive.Close()
	}

	if args.JSON {
		NewJSONResponse(command, report).Print()
		return 0
	}

	fmt.Println(statusTitleStyle.Render("efine status"))
	fmt.Println(statusLabelStyle.Render("Backend") + report.BaseURL)
	if report.Reachable {
		fmt.Println(statusLabelStyle.Render("Connection") + statusOKStyle.Render("reachable"))
	} else {
		fmt.Println(statusLabelStyle.Render("Connection") + statusBadStyle.Render("unreachable"))
	}
	if report.SignedIn {
		fmt.Println(statusLabelStyle.Render("Account") + fmt.Sprintf("%s (%s)", report.Name, report.Role))
		if report.IsTwoFactorEnabled {
			fmt.Println(statusLabelStyle.Render("2FA") + statusOKStyle.Render("enabled"))
		} else {
			fmt.Println(statusLabelStyle.Render("2FA") + statusWarnStyle.Render("disabled"))
		}
	} else {
		fmt.Println(statusLabelStyle.Render("Account") + "not signed in")
	}
	fmt.Println(statusLabelStyle.Render("Reports") + fmt.Sprintf("%d archived", report.ArchivedReports))
	return 0
}
