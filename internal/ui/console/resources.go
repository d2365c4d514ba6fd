// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/ui/components"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// LIST STATE
// =============================================================================

// listState is the shared paged-table state for the resource screens.
// One instance is reused; reset() clears it when the view changes.
type listState struct {
	view   view
	table  table.Model
	search textinput.Model

	page  int
	limit int
	total int

	// ids maps visible rows back to record IDs for row actions.
	ids []string

	// fineStatus filters the fines listing; empty means all.
	fineStatus model.FineStatus

	// confirmID is a pending delete awaiting y/n.
	confirmID    string
	confirmLabel string
}

func newListState(pageSize int) listState {
	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 80

	tbl := table.New(
		table.WithFocused(true),
		table.WithHeight(12),
	)
	tbl.SetStyles(tableStyles())

	return listState{table: tbl, search: search, page: 1, limit: pageSize}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = styles.TableHeader
	s.Selected = styles.TableSelected
	return s
}

func (l *listState) reset(v view) {
	l.view = v
	l.page = 1
	l.total = 0
	l.ids = nil
	l.fineStatus = ""
	l.confirmID = ""
	l.confirmLabel = ""
	l.search.SetValue("")
	l.search.Blur()
	l.table.SetRows(nil)
	l.table.SetColumns(columnsFor(v))
}

func (l *listState) resize(width, height int) {
	if height > 10 {
		l.table.SetHeight(height - 10)
	}
}

func (l *listState) totalPages() int {
	if l.limit <= 0 || l.total <= 0 {
		return 1
	}
	pages := (l.total + l.limit - 1) / l.limit
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (l *listState) opts() api.ListOptions {
	return api.ListOptions{Page: l.page, Limit: l.limit, Search: l.search.Value()}
}

// selectedID returns the record ID under the cursor, or "".
func (l *listState) selectedID() string {
	idx := l.table.Cursor()
	if idx < 0 || idx >= len(l.ids) {
		return ""
	}
	return l.ids[idx]
}

func columnsFor(v view) []table.Column {
	switch v {
	case viewDrivers:
		return []table.Column{
			{Title: "Name", Width: 22},
			{Title: "License", Width: 14},
			{Title: "NIC", Width: 14},
			{Title: "Points", Width: 7},
			{Title: "Status", Width: 10},
		}
	case viewOfficers:
		return []table.Column{
			{Title: "Name", Width: 22},
			{Title: "Badge", Width: 10},
			{Title: "Station", Width: 14},
			{Title: "Position", Width: 12},
			{Title: "Email", Width: 24},
		}
	case viewOffenses:
		return []table.Column{
			{Title: "Offense", Width: 32},
			{Title: "Section", Width: 12},
			{Title: "Amount", Width: 14},
		}
	case viewFines, viewPayments:
		return []table.Column{
			{Title: "Date", Width: 11},
			{Title: "License", Width: 14},
			{Title: "Offense", Width: 26},
			{Title: "Amount", Width: 14},
			{Title: "Status", Width: 8},
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// loadList fetches the current page for the active resource screen.
func (m *Model) loadList() tea.Cmd {
	tag := m.tag
	client := m.client
	opts := m.list.opts()

	var fetch tea.Cmd
	switch m.list.view {
	case viewDrivers:
		fetch = func() tea.Msg {
			page, err := client.ListDrivers(context.Background(), opts)
			return driversMsg{tag: tag, page: page, err: err}
		}
	case viewOfficers:
		fetch = func() tea.Msg {
			page, err := client.ListOfficers(context.Background(), opts)
			return officersMsg{tag: tag, page: page, err: err}
		}
	case viewOffenses:
		fetch = func() tea.Msg {
			page, err := client.ListOffenses(context.Background(), opts)
			return offensesMsg{tag: tag, page: page, err: err}
		}
	case viewFines:
		filter := api.FineFilter{ListOptions: opts, Status: m.list.fineStatus}
		fetch = func() tea.Msg {
			page, err := client.ListFines(context.Background(), filter)
			return finesMsg{tag: tag, page: page, err: err}
		}
	case viewPayments:
		fetch = func() tea.Msg {
			page, err := client.ListPayments(context.Background(), opts)
			return paymentsMsg{tag: tag, page: page, err: err}
		}
	default:
		return nil
	}
	return tea.Batch(m.loader.Start("loading"), fetch)
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Pending delete confirmation eats the next key.
	if m.list.confirmID != "" {
		id := m.list.confirmID
		m.list.confirmID = ""
		m.list.confirmLabel = ""
		if msg.String() == "y" {
			return m, m.deleteSelected(id)
		}
		return m, nil
	}

	if m.list.search.Focused() {
		switch msg.String() {
		case "enter":
			m.list.search.Blur()
			m.list.page = 1
			return m, m.loadList()
		case "esc":
			m.list.search.SetValue("")
			m.list.search.Blur()
			m.list.page = 1
			return m, m.loadList()
		}
		var cmd tea.Cmd
		m.list.search, cmd = m.list.search.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "/":
		return m, m.list.search.Focus()
	case "r":
		return m, m.loadList()
	case "n", "right":
		if m.list.page < m.list.totalPages() {
			m.list.page++
			return m, m.loadList()
		}
		return m, nil
	case "p", "left":
		if m.list.page > 1 {
			m.list.page--
			return m, m.loadList()
		}
		return m, nil
	case "f":
		if m.list.view == viewFines {
			switch m.list.fineStatus {
			case "":
				m.list.fineStatus = model.FineUnpaid
			case model.FineUnpaid:
				m.list.fineStatus = model.FinePaid
			default:
				m.list.fineStatus = ""
			}
			m.list.page = 1
			return m, m.loadList()
		}
		return m, nil
	case "s":
		if m.list.view == viewDrivers {
			return m, m.driverAction("suspend")
		}
		return m, nil
	case "a":
		if m.list.view == viewDrivers {
			return m, m.driverAction("activate")
		}
		return m, nil
	case "c":
		if m.list.view == viewOfficers {
			return m, m.startOfficerWizard()
		}
		return m, nil
	case "d":
		if id := m.list.selectedID(); id != "" && m.canDelete() {
			m.list.confirmID = id
			m.list.confirmLabel = "delete the selected record? (y/n)"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list.table, cmd = m.list.table.Update(msg)
	return m, cmd
}

// canDelete reports whether the signed-in role may delete records on
// the active screen. Officers and offenses are super-admin only.
func (m *Model) canDelete() bool {
	switch m.list.view {
	case viewDrivers:
		return auth.Allowed(m.user(), model.RoleSuperAdmin, model.RoleAdminOfficer)
	case viewOfficers, viewOffenses:
		return auth.Allowed(m.user(), model.RoleSuperAdmin)
	default:
		return false
	}
}

func (m *Model) driverAction(action string) tea.Cmd {
	id := m.list.selectedID()
	if id == "" {
		return nil
	}
	tag := m.tag
	client := m.client
	return tea.Batch(
		m.loader.Start(action),
		func() tea.Msg {
			var err error
			var info string
			if action == "suspend" {
				_, err = client.SuspendDriver(context.Background(), id)
				info = "Driver suspended"
			} else {
				_, err = client.ActivateDriver(context.Background(), id)
				info = "Driver activated"
			}
			return actionDoneMsg{tag: tag, info: info, err: err}
		},
	)
}

func (m *Model) deleteSelected(id string) tea.Cmd {
	tag := m.tag
	client := m.client
	v := m.list.view
	return tea.Batch(
		m.loader.Start("deleting"),
		func() tea.Msg {
			var err error
			switch v {
			case viewDrivers:
				err = client.DeleteDriver(context.Background(), id)
			case viewOfficers:
				err = client.DeleteOfficer(context.Background(), id)
			case viewOffenses:
				err = client.DeleteOffense(context.Background(), id)
			}
			return actionDoneMsg{tag: tag, info: "Record deleted", err: err}
		},
	)
}

// =============================================================================
// RESULTS
// =============================================================================

func (m Model) updateListResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case driversMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.list.total = msg.page.Total
		rows := make([]table.Row, 0, len(msg.page.Data))
		ids := make([]string, 0, len(msg.page.Data))
		for _, d := range msg.page.Data {
			rows = append(rows, table.Row{
				d.Name, d.LicenseNumber, d.NIC,
				fmt.Sprintf("%d", d.DemeritPoints), string(d.LicenseStatus),
			})
			ids = append(ids, d.ID)
		}
		m.setRows(rows, ids)
		return m, nil

	case officersMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.list.total = msg.page.Total
		rows := make([]table.Row, 0, len(msg.page.Data))
		ids := make([]string, 0, len(msg.page.Data))
		for _, o := range msg.page.Data {
			rows = append(rows, table.Row{o.Name, o.BadgeNumber, o.PoliceStation, o.Position, o.Email})
			ids = append(ids, o.ID)
		}
		m.setRows(rows, ids)
		return m, nil

	case offensesMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.list.total = msg.page.Total
		rows := make([]table.Row, 0, len(msg.page.Data))
		ids := make([]string, 0, len(msg.page.Data))
		for _, o := range msg.page.Data {
			rows = append(rows, table.Row{o.OffenseName, o.SectionOfAct, components.Money(o.Amount)})
			ids = append(ids, o.ID)
		}
		m.setRows(rows, ids)
		return m, nil

	case finesMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.list.total = msg.page.Total
		m.setRows(fineRows(msg.page.Data))
		return m, nil

	case paymentsMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.list.total = msg.page.Total
		m.setRows(fineRows(msg.page.Data))
		return m, nil

	case actionDoneMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		cmd := m.toast.Show(auth.Notice{Level: auth.NoticeSuccess, Message: msg.info})
		return m, tea.Batch(cmd, m.loadList())
	}
	return m, nil
}

func (m *Model) setRows(rows []table.Row, ids ...[]string) {
	m.list.table.SetRows(rows)
	if len(ids) > 0 {
		m.list.ids = ids[0]
	} else {
		m.list.ids = nil
	}
	if m.list.table.Cursor() >= len(rows) {
		m.list.table.SetCursor(0)
	}
}

func fineRows(fines []model.IssuedFine) []table.Row {
	rows := make([]table.Row, 0, len(fines))
	for _, f := range fines {
		rows = append(rows, table.Row{
			components.Date(f.Date), f.LicenseNumber, f.OffenseName,
			components.Money(f.Amount), string(f.Status),
		})
	}
	return rows
}

func errNotice(err error) auth.Notice {
	return auth.Notice{Level: auth.NoticeError, Message: err.Error()}
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) viewList() string {
	header := fmt.Sprintf("page %d/%d · %d total", m.list.page, m.list.totalPages(), m.list.total)
	if m.list.view == viewFines {
		status := "all"
		if m.list.fineStatus != "" {
			status = string(m.list.fineStatus)
		}
		header += " · filter: " + status
	}

	lines := []string{
		styles.Label.Render("Search") + m.list.search.View(),
		m.list.table.View(),
		styles.Hint.Render(header),
	}

	if m.list.confirmLabel != "" {
		lines = append(lines, styles.WarnText.Render(m.list.confirmLabel))
	}

	hints := "/ search · n/p page · r reload"
	if m.list.view == viewDrivers {
		hints += " · s suspend · a activate"
	}
	if m.list.view == viewOfficers && auth.Allowed(m.user(), model.RoleSuperAdmin, model.RoleAdminOfficer) {
		hints += " · c enroll"
	}
	if m.list.view == viewFines {
		hints += " · f filter status"
	}
	if m.canDelete() {
		hints += " · d delete"
	}
	lines = append(lines, styles.Hint.Render(hints))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
