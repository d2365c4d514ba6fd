// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/config"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/storage"
	"github.com/jeranaias/efine-tui/internal/ui/components"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// VIEWS
// =============================================================================

// view identifies the active screen.
type view int

const (
	viewLogin view = iota
	viewTwoFactor
	viewDashboard
	viewDrivers
	viewOfficers
	viewOffenses
	viewFines
	viewPayments
	viewReports
	viewSettings
	viewAdminWizard
	viewOfficerWizard
)

// navEntry is one top navigation item with its role restriction.
type navEntry struct {
	view  view
	label string
	roles []model.Role
}

// navEntries is the navigation in display order. An empty role list
// means any signed-in user.
var navEntries = []navEntry{
	{viewDashboard, "Dashboard", nil},
	{viewDrivers, "Drivers", []model.Role{model.RoleSuperAdmin, model.RoleAdminOfficer}},
	{viewOfficers, "Officers", []model.Role{model.RoleSuperAdmin, model.RoleAdminOfficer}},
	{viewOffenses, "Offenses", []model.Role{model.RoleSuperAdmin, model.RoleAdminOfficer}},
	{viewFines, "Fines", nil},
	{viewPayments, "Payments", []model.Role{model.RoleSuperAdmin, model.RoleFinanceOfficer}},
	{viewReports, "Reports", []model.Role{model.RoleSuperAdmin, model.RoleFinanceOfficer}},
	{viewSettings, "Settings", nil},
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model for the console.
type Model struct {
	ctrl    *auth.Controller
	client  *api.Client
	archive *storage.ReportArchive
	cfg     *config.Config

	// events carries controller side effects into the update loop.
	events chan tea.Msg

	view view
	tag  viewTag

	width  int
	height int

	toast  components.Toast
	loader components.Loader
	status components.StatusBar

	login    loginForm
	dash     *api.Dashboard
	list     listState
	reports  reportsState
	settings settingsState

	adminWiz   *adminWizardForm
	officerWiz *officerWizardForm
}

// New builds the console model. The controller's hooks are wired to the
// model's event channel; NewController must have been created with
// Hooks from a prior call to NewHooks sharing the same channel.
func New(ctrl *auth.Controller, client *api.Client, archive *storage.ReportArchive, cfg *config.Config, events chan tea.Msg) Model {
	m := Model{
		ctrl:    ctrl,
		client:  client,
		archive: archive,
		cfg:     cfg,
		events:  events,
		toast:   components.NewToast(),
		loader:  components.NewLoader(),
		login:   newLoginForm(),
	}
	m.list = newListState(cfg.UI.PageSize)
	m.reports = newReportsState()
	m.settings = newSettingsState()

	if ctrl.State() == auth.StateAuthenticated {
		m.view = viewDashboard
	} else {
		m.view = viewLogin
	}
	return m
}

// NewHooks builds controller hooks feeding the given event channel.
// The channel is buffered; the controller never blocks on the UI.
func NewHooks(events chan tea.Msg) auth.Hooks {
	return auth.Hooks{
		Navigate: func(r auth.Route) {
			select {
			case events <- navigateMsg(r):
			default:
			}
		},
		Notify: func(n auth.Notice) {
			select {
			case events <- noticeMsg(n):
			default:
			}
		},
	}
}

// Init starts the event subscription and the initial screen load.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listen()}
	if m.view == viewDashboard {
		cmds = append(cmds, m.loadDashboard())
	}
	return tea.Batch(cmds...)
}

// listen waits for the next controller event.
func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// user returns the signed-in admin or nil.
func (m *Model) user() *model.AdminUser {
	if u, ok := m.ctrl.User(); ok {
		return &u
	}
	return nil
}

// switchView navigates and bumps the tag so any in-flight response for
// the old screen is dropped.
func (m *Model) switchView(v view) tea.Cmd {
	m.view = v
	m.tag++
	m.loader.Stop()

	switch v {
	case viewDashboard:
		return m.loadDashboard()
	case viewDrivers, viewOfficers, viewOffenses, viewFines, viewPayments:
		m.list.reset(v)
		return m.loadList()
	case viewReports:
		return m.loadArchive()
	case viewSettings:
		m.settings = newSettingsState()
	}
	return nil
}

// visibleNav returns the nav entries the current user may open.
func (m *Model) visibleNav() []navEntry {
	user := m.user()
	var out []navEntry
	for _, e := range navEntries {
		if auth.Allowed(user, e.roles...) {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.status.Width = msg.Width
		m.list.resize(msg.Width, msg.Height)
		return m, nil

	case noticeMsg:
		cmd := m.toast.Show(auth.Notice(msg))
		return m, tea.Batch(cmd, m.listen())

	case navigateMsg:
		var cmd tea.Cmd
		switch auth.Route(msg) {
		case auth.RouteLogin:
			m.view = viewLogin
			m.tag++
			m.login = newLoginForm()
		case auth.RouteDashboard:
			cmd = m.switchView(viewDashboard)
		case auth.RouteSettings:
			cmd = m.switchView(viewSettings)
		}
		return m, tea.Batch(cmd, m.listen())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Component and response messages.
	m.toast.Update(msg)
	if cmd := m.loader.Update(msg); cmd != nil {
		return m, cmd
	}
	return m.handleResponse(msg)
}

// handleKey routes keys to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit, except while typing into a focused field.
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view {
	case viewLogin, viewTwoFactor:
		return m.updateLogin(msg)
	case viewAdminWizard:
		return m.updateAdminWizard(msg)
	case viewOfficerWizard:
		return m.updateOfficerWizard(msg)
	}

	// Signed-in navigation keys, unless a text field has focus.
	if !m.typing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			return m, m.cycleView(1)
		case "shift+tab":
			return m, m.cycleView(-1)
		}
	}

	switch m.view {
	case viewDashboard:
		if msg.String() == "r" {
			return m, m.loadDashboard()
		}
		return m, nil
	case viewDrivers, viewOfficers, viewOffenses, viewFines, viewPayments:
		return m.updateList(msg)
	case viewReports:
		return m.updateReports(msg)
	case viewSettings:
		return m.updateSettings(msg)
	}
	return m, nil
}

// typing reports whether the active screen has a focused text input.
func (m *Model) typing() bool {
	switch m.view {
	case viewDrivers, viewOfficers, viewOffenses, viewFines, viewPayments:
		return m.list.search.Focused()
	case viewReports:
		return m.reports.typing()
	case viewSettings:
		return m.settings.typing()
	}
	return false
}

// cycleView moves through the role-visible navigation.
func (m *Model) cycleView(dir int) tea.Cmd {
	nav := m.visibleNav()
	if len(nav) == 0 {
		return nil
	}
	idx := 0
	for i, e := range nav {
		if e.view == m.view {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(nav)) % len(nav)
	return m.switchView(nav[idx].view)
}

// handleResponse dispatches async results, dropping stale tags.
func (m Model) handleResponse(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg, codeDoneMsg:
		return m.updateLoginResult(msg)

	case dashboardMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		m.loader.Stop()
		if msg.err == nil {
			m.dash = msg.dash
		}
		return m, nil

	case driversMsg, officersMsg, offensesMsg, finesMsg, paymentsMsg, actionDoneMsg:
		return m.updateListResult(msg)

	case reportDoneMsg, archiveListMsg:
		return m.updateReportsResult(msg)

	case twoFactorSetupMsg, twoFactorToggledMsg:
		return m.updateSettingsResult(msg)

	case wizardStepMsg, stationsMsg:
		return m.updateWizardResult(msg)
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) View() string {
	var body string
	switch m.view {
	case viewLogin, viewTwoFactor:
		body = m.viewLogin()
	case viewDashboard:
		body = m.viewDashboard()
	case viewDrivers, viewOfficers, viewOffenses, viewFines, viewPayments:
		body = m.viewList()
	case viewReports:
		body = m.viewReports()
	case viewSettings:
		body = m.viewSettings()
	case viewAdminWizard:
		body = m.viewAdminWizard()
	case viewOfficerWizard:
		body = m.viewOfficerWizard()
	}

	sections := []string{}
	if m.view != viewLogin && m.view != viewTwoFactor {
		sections = append(sections, m.viewNav())
	}
	sections = append(sections, body)
	if t := m.toast.View(); t != "" {
		sections = append(sections, t)
	}
	if l := m.loader.View(); l != "" {
		sections = append(sections, l)
	}
	sections = append(sections, m.status.View(m.user(), "tab switch · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewNav renders the top navigation for the current role.
func (m Model) viewNav() string {
	var tabs []string
	for _, e := range m.visibleNav() {
		if e.view == m.view {
			tabs = append(tabs, styles.ActiveTab.Render(e.label))
		} else {
			tabs = append(tabs, styles.InactiveTab.Render(e.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
