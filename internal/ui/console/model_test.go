// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/config"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/session"
	"github.com/jeranaias/efine-tui/internal/storage"
)

// newTestModel builds a console model over a seeded, authenticated
// session for the given role.
func newTestModel(t *testing.T, role model.Role) Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryBackend())
	err := store.Save(&session.Session{
		Token: "t1",
		User:  model.AdminUser{ID: "u1", Name: "Tester", Role: role, IsTwoFactorEnabled: true},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		RatePerSec: 1000,
	}, store)

	events := make(chan tea.Msg, 16)
	ctrl := auth.NewController(client, store, NewHooks(events))

	archive, err := storage.OpenArchive(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	cfg := config.Default()
	cfg.Reports.DownloadDir = t.TempDir()

	return New(ctrl, client, archive, cfg, events)
}

// =============================================================================
// NAVIGATION
// =============================================================================

func navLabels(m Model) []string {
	var out []string
	for _, e := range m.visibleNav() {
		out = append(out, e.label)
	}
	return out
}

func TestVisibleNav_RoleGating(t *testing.T) {
	tests := []struct {
		role    model.Role
		visible []string
	}{
		{model.RoleSuperAdmin, []string{
			"Dashboard", "Drivers", "Officers", "Offenses", "Fines", "Payments", "Reports", "Settings"}},
		{model.RoleAdminOfficer, []string{
			"Dashboard", "Drivers", "Officers", "Offenses", "Fines", "Settings"}},
		{model.RoleFinanceOfficer, []string{
			"Dashboard", "Fines", "Payments", "Reports", "Settings"}},
	}
	for _, tt := range tests {
		m := newTestModel(t, tt.role)
		got := navLabels(m)
		if len(got) != len(tt.visible) {
			t.Errorf("%s: nav = %v, want %v", tt.role, got, tt.visible)
			continue
		}
		for i := range got {
			if got[i] != tt.visible[i] {
				t.Errorf("%s: nav[%d] = %q, want %q", tt.role, i, got[i], tt.visible[i])
			}
		}
	}
}

func TestNew_StartsOnDashboardWhenAuthenticated(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	if m.view != viewDashboard {
		t.Errorf("view = %v, want dashboard", m.view)
	}
}

func TestSwitchView_BumpsTag(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	before := m.tag
	m.switchView(viewDrivers)
	if m.tag != before+1 {
		t.Errorf("tag = %d, want %d", m.tag, before+1)
	}
	if m.list.view != viewDrivers {
		t.Errorf("list view = %v", m.list.view)
	}
}

func TestCycleView_SkipsForbiddenScreens(t *testing.T) {
	m := newTestModel(t, model.RoleFinanceOfficer)
	m.view = viewDashboard
	m.cycleView(1)
	if m.view != viewFines {
		t.Errorf("view = %v, want fines (drivers is off limits)", m.view)
	}
}

// =============================================================================
// STALE RESPONSES
// =============================================================================

func TestListResult_PopulatesRows(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.switchView(viewDrivers)

	page := &api.Page[model.Driver]{
		Data: []model.Driver{
			{ID: "d1", Name: "K. Perera", LicenseNumber: "B123", NIC: "901234567V", LicenseStatus: model.LicenseActive},
		},
		Total: 1,
	}
	next, _ := m.updateListResult(driversMsg{tag: m.tag, page: page})
	m = next.(Model)

	if len(m.list.table.Rows()) != 1 {
		t.Fatalf("rows = %d", len(m.list.table.Rows()))
	}
	if m.list.selectedID() != "d1" {
		t.Errorf("selectedID = %q", m.list.selectedID())
	}
	if m.list.total != 1 {
		t.Errorf("total = %d", m.list.total)
	}
}

func TestListResult_DropsStaleTag(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.switchView(viewDrivers)
	stale := m.tag
	m.switchView(viewOfficers)

	page := &api.Page[model.Driver]{Data: []model.Driver{{ID: "d1", Name: "Late"}}, Total: 1}
	next, _ := m.updateListResult(driversMsg{tag: stale, page: page})
	m = next.(Model)

	if len(m.list.table.Rows()) != 0 {
		t.Error("stale response mutated the officers screen")
	}
}

func TestDashboardResult_DropsStaleTag(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	stale := m.tag
	m.switchView(viewSettings)

	next, _ := m.handleResponse(dashboardMsg{tag: stale, dash: &api.Dashboard{}})
	m = next.(Model)
	if m.dash != nil {
		t.Error("stale dashboard response was applied")
	}
}

// =============================================================================
// LIST STATE
// =============================================================================

func TestListState_TotalPages(t *testing.T) {
	l := newListState(10)
	tests := []struct {
		total, want int
	}{
		{0, 1}, {1, 1}, {10, 1}, {11, 2}, {95, 10},
	}
	for _, tt := range tests {
		l.total = tt.total
		if got := l.totalPages(); got != tt.want {
			t.Errorf("totalPages(total=%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestListState_ResetClearsFilters(t *testing.T) {
	l := newListState(20)
	l.reset(viewFines)
	l.fineStatus = model.FineUnpaid
	l.page = 3
	l.search.SetValue("perera")

	l.reset(viewDrivers)
	if l.fineStatus != "" || l.page != 1 || l.search.Value() != "" {
		t.Errorf("reset left state behind: %+v", l)
	}
	if l.view != viewDrivers {
		t.Errorf("view = %v", l.view)
	}
}

func TestFineStatusFilter_Cycles(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.switchView(viewFines)

	press := func(key string) {
		next, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		m = next.(Model)
	}
	press("f")
	if m.list.fineStatus != model.FineUnpaid {
		t.Errorf("after 1: %q", m.list.fineStatus)
	}
	press("f")
	if m.list.fineStatus != model.FinePaid {
		t.Errorf("after 2: %q", m.list.fineStatus)
	}
	press("f")
	if m.list.fineStatus != "" {
		t.Errorf("after 3: %q", m.list.fineStatus)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.switchView(viewDrivers)
	page := &api.Page[model.Driver]{Data: []model.Driver{{ID: "d1", Name: "X"}}, Total: 1}
	next, _ := m.updateListResult(driversMsg{tag: m.tag, page: page})
	m = next.(Model)

	next, _ = m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = next.(Model)
	if m.list.confirmID != "d1" {
		t.Fatalf("confirmID = %q", m.list.confirmID)
	}

	// Anything but y cancels.
	next, _ = m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(Model)
	if m.list.confirmID != "" {
		t.Error("confirmation was not cleared")
	}
}

func TestCanDelete_PerRoleAndScreen(t *testing.T) {
	tests := []struct {
		role model.Role
		view view
		want bool
	}{
		{model.RoleSuperAdmin, viewDrivers, true},
		{model.RoleSuperAdmin, viewOfficers, true},
		{model.RoleSuperAdmin, viewOffenses, true},
		{model.RoleAdminOfficer, viewDrivers, true},
		{model.RoleAdminOfficer, viewOfficers, false},
		{model.RoleAdminOfficer, viewOffenses, false},
		{model.RoleSuperAdmin, viewFines, false},
		{model.RoleSuperAdmin, viewPayments, false},
	}
	for _, tt := range tests {
		m := newTestModel(t, tt.role)
		m.list.view = tt.view
		if got := m.canDelete(); got != tt.want {
			t.Errorf("%s on %v: canDelete = %v, want %v", tt.role, tt.view, got, tt.want)
		}
	}
}

func TestDeleteKeyIgnoredWithoutPermission(t *testing.T) {
	m := newTestModel(t, model.RoleAdminOfficer)
	m.switchView(viewOfficers)
	page := &api.Page[model.Officer]{Data: []model.Officer{{ID: "o1", Name: "X"}}, Total: 1}
	next, _ := m.updateListResult(officersMsg{tag: m.tag, page: page})
	m = next.(Model)

	next, _ = m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = next.(Model)
	if m.list.confirmID != "" {
		t.Errorf("confirmID = %q, want empty", m.list.confirmID)
	}
}

// =============================================================================
// REPORTS FORM
// =============================================================================

func TestReportForm_FieldsPerType(t *testing.T) {
	s := newReportsState()
	if len(s.fields) != 2 {
		t.Errorf("monthly fields = %d, want 2", len(s.fields))
	}
	s.typeIdx = 1 // payments
	s.buildFields()
	if len(s.fields) != 2 {
		t.Errorf("payments fields = %d, want 2", len(s.fields))
	}
	s.typeIdx = 2 // driver violations
	s.buildFields()
	if len(s.fields) != 1 {
		t.Errorf("driver violations fields = %d, want 1", len(s.fields))
	}
}

func TestReportsState_TypingOnlyWhenFormOpen(t *testing.T) {
	s := newReportsState()
	if s.typing() {
		t.Error("closed form should not report typing")
	}
	s.formOpen = true
	if !s.typing() {
		t.Error("open form with focused field should report typing")
	}
}

// =============================================================================
// WIZARD ENTRY GATING
// =============================================================================

func TestLoginScreen_HasNoWizardShortcuts(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.view = viewLogin

	for _, key := range []tea.KeyType{tea.KeyF2, tea.KeyF3} {
		next, _ := m.handleKey(tea.KeyMsg{Type: key})
		m = next.(Model)
		if m.view != viewLogin {
			t.Fatalf("key %v left the login screen: view = %v", key, m.view)
		}
		if m.adminWiz != nil || m.officerWiz != nil {
			t.Fatalf("key %v opened a wizard before sign-in", key)
		}
	}
}

func TestAdminWizardEntry_SuperAdminOnly(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.view = viewSettings
	next, _ := m.updateSettings(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	if m.view != viewAdminWizard || m.adminWiz == nil {
		t.Errorf("super_admin: view = %v, wizard = %v", m.view, m.adminWiz != nil)
	}

	m = newTestModel(t, model.RoleAdminOfficer)
	m.view = viewSettings
	next, _ = m.updateSettings(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	if m.view == viewAdminWizard || m.adminWiz != nil {
		t.Error("admin_officer must not reach the admin wizard")
	}
}

func TestOfficerWizardEntry_FromOfficersScreen(t *testing.T) {
	m := newTestModel(t, model.RoleAdminOfficer)
	m.switchView(viewOfficers)
	next, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(Model)
	if m.view != viewOfficerWizard || m.officerWiz == nil {
		t.Errorf("view = %v, wizard = %v", m.view, m.officerWiz != nil)
	}

	// Cancelling returns to the listing, not the login screen.
	next, _ = m.updateOfficerWizard(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.view != viewOfficers {
		t.Errorf("after esc: view = %v, want officers", m.view)
	}
}

// =============================================================================
// CONTROLLER EVENTS
// =============================================================================

func TestLoginForm_FocusCyclesBothDirections(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.view = viewLogin

	next, _ := m.updateLogin(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.login.focus != 1 {
		t.Fatalf("tab: focus = %d, want 1", m.login.focus)
	}
	next, _ = m.updateLogin(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	if m.login.focus != 0 {
		t.Fatalf("shift+tab: focus = %d, want 0", m.login.focus)
	}
	// Reverse wraps from the first field to the last.
	next, _ = m.updateLogin(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	if m.login.focus != 1 || !m.login.password.Focused() {
		t.Errorf("wrap: focus = %d, password focused = %v", m.login.focus, m.login.password.Focused())
	}
}

func TestNavigateMsg_LoginResetsForm(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	m.login.email.SetValue("stale@x.com")

	next, _ := m.Update(navigateMsg(auth.RouteLogin))
	m = next.(Model)
	if m.view != viewLogin {
		t.Errorf("view = %v", m.view)
	}
	if m.login.email.Value() != "" {
		t.Error("login form kept stale input")
	}
}

func TestNoticeMsg_ShowsToast(t *testing.T) {
	m := newTestModel(t, model.RoleSuperAdmin)
	next, cmd := m.Update(noticeMsg(auth.Notice{Level: auth.NoticeError, Message: "Session expired"}))
	m = next.(Model)
	if cmd == nil {
		t.Error("expected expiry + listen commands")
	}
	if !m.toast.Visible() || m.toast.Message() != "Session expired" {
		t.Errorf("toast = %v %q", m.toast.Visible(), m.toast.Message())
	}
}

func TestHooks_NeverBlock(t *testing.T) {
	events := make(chan tea.Msg, 1)
	hooks := NewHooks(events)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hooks.Notify(auth.Notice{Message: "n"})
			hooks.Navigate(auth.RouteLogin)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hooks blocked on a full channel")
	}
}
