// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// adminRoles are the roles offered by the admin creation wizard.
var adminRoles = []model.Role{model.RoleSuperAdmin, model.RoleAdminOfficer, model.RoleFinanceOfficer}

// =============================================================================
// ADMIN WIZARD FORM
// =============================================================================

// adminWizardForm is the screen state over auth.AdminWizard.
type adminWizardForm struct {
	wiz     *auth.AdminWizard
	fields  []textinput.Model // name, email, password, phone
	code    textinput.Model
	roleIdx int
	focus   int
	errMsg  string
}

func newAdminWizardForm(wiz *auth.AdminWizard) *adminWizardForm {
	mk := func(placeholder string, password bool) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 120
		if password {
			in.EchoMode = textinput.EchoPassword
		}
		return in
	}
	f := &adminWizardForm{
		wiz: wiz,
		fields: []textinput.Model{
			mk("name", false),
			mk("email", false),
			mk("password", true),
			mk("phone (optional)", false),
		},
		code: mk("6-digit code", false),
	}
	f.code.CharLimit = 6
	f.fields[0].Focus()
	return f
}

func (f *adminWizardForm) setFocus(i int) {
	f.focus = i
	for idx := range f.fields {
		if idx == i {
			f.fields[idx].Focus()
		} else {
			f.fields[idx].Blur()
		}
	}
}

// startAdminWizard opens admin creation from the settings screen.
// Super admin only.
func (m *Model) startAdminWizard() tea.Cmd {
	if !auth.Allowed(m.user(), model.RoleSuperAdmin) {
		return m.toast.Show(auth.Notice{Level: auth.NoticeError, Message: "Only super admins can create admin accounts"})
	}
	m.adminWiz = newAdminWizardForm(auth.NewAdminWizard(m.client))
	m.view = viewAdminWizard
	return nil
}

func (m Model) updateAdminWizard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.adminWiz
	switch msg.String() {
	case "esc":
		f.wiz.Cancel()
		m.adminWiz = nil
		return m, m.switchView(viewSettings)
	}

	switch f.wiz.Step() {
	case auth.AdminStepDetails:
		switch msg.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.fields))
			return m, nil
		case "shift+tab", "up":
			f.setFocus((f.focus + len(f.fields) - 1) % len(f.fields))
			return m, nil
		case "left":
			f.roleIdx = (f.roleIdx + len(adminRoles) - 1) % len(adminRoles)
			return m, nil
		case "right":
			f.roleIdx = (f.roleIdx + 1) % len(adminRoles)
			return m, nil
		case "enter":
			details := auth.AdminDetails{
				Name:     f.fields[0].Value(),
				Email:    f.fields[1].Value(),
				Password: f.fields[2].Value(),
				Phone:    f.fields[3].Value(),
				Role:     adminRoles[f.roleIdx],
			}
			f.errMsg = ""
			wiz := f.wiz
			return m, tea.Batch(
				m.loader.Start("requesting secret"),
				func() tea.Msg {
					return wizardStepMsg{err: wiz.SubmitDetails(context.Background(), details)}
				},
			)
		}
		var cmd tea.Cmd
		f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
		return m, cmd

	case auth.AdminStepTwoFactor:
		if msg.String() == "enter" {
			code := f.code.Value()
			f.errMsg = ""
			wiz := f.wiz
			return m, tea.Batch(
				m.loader.Start("creating account"),
				func() tea.Msg {
					_, err := wiz.SubmitCode(context.Background(), code)
					return wizardStepMsg{err: err}
				},
			)
		}
		var cmd tea.Cmd
		f.code, cmd = f.code.Update(msg)
		return m, cmd

	case auth.AdminStepComplete:
		// Any key returns to the settings screen.
		m.adminWiz = nil
		return m, m.switchView(viewSettings)
	}
	return m, nil
}

func (m Model) viewAdminWizard() string {
	f := m.adminWiz
	if f == nil {
		return ""
	}
	labels := []string{"Name", "Email", "Password", "Phone"}

	switch f.wiz.Step() {
	case auth.AdminStepDetails:
		lines := []string{styles.Title.Render("New Admin Account"), ""}
		for i := range f.fields {
			lines = append(lines, styles.Label.Render(labels[i])+f.fields[i].View())
		}
		lines = append(lines,
			styles.Label.Render("Role")+styles.ActiveTab.Render(adminRoles[f.roleIdx].Label())+styles.Hint.Render("  ←/→ change"))
		if f.errMsg != "" {
			lines = append(lines, "", styles.ErrorText.Render(f.errMsg))
		}
		lines = append(lines, "", styles.Hint.Render("enter continue · esc back"))
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	case auth.AdminStepTwoFactor:
		lines := []string{
			styles.Title.Render("Enroll Authenticator"),
			styles.Subtitle.Render("Add this secret to your authenticator app, then enter a code."),
			"",
			f.wiz.QRCodeURL(),
			styles.Label.Render("Secret") + f.wiz.TempSecret(),
			styles.Label.Render("Code") + f.code.View(),
		}
		if f.errMsg != "" {
			lines = append(lines, "", styles.ErrorText.Render(f.errMsg))
		}
		lines = append(lines, "", styles.Hint.Render("enter verify · esc cancel"))
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	default:
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render("Account Created"),
			styles.SuccessText.Render("The admin account exists with 2FA enabled."),
			styles.Hint.Render("press any key to return"),
		))
	}
}

// =============================================================================
// OFFICER WIZARD FORM
// =============================================================================

// officerWizardForm is the screen state over auth.OfficerWizard.
type officerWizardForm struct {
	wiz        *auth.OfficerWizard
	stations   []model.Station
	stationIdx int

	badge  textinput.Model
	otp    textinput.Model
	fields []textinput.Model // name, email, password
	posIdx int
	focus  int
	errMsg string
}

func newOfficerWizardForm(wiz *auth.OfficerWizard) *officerWizardForm {
	mk := func(placeholder string, password bool) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 120
		if password {
			in.EchoMode = textinput.EchoPassword
		}
		return in
	}
	f := &officerWizardForm{
		wiz:   wiz,
		badge: mk("badge number", false),
		otp:   mk("emailed code", false),
		fields: []textinput.Model{
			mk("name", false),
			mk("email", false),
			mk("password", true),
		},
	}
	f.badge.Focus()
	return f
}

func (f *officerWizardForm) setFocus(i int) {
	f.focus = i
	for idx := range f.fields {
		if idx == i {
			f.fields[idx].Focus()
		} else {
			f.fields[idx].Blur()
		}
	}
}

func (f *officerWizardForm) stationCode() string {
	if f.stationIdx < len(f.stations) {
		return f.stations[f.stationIdx].StationCode
	}
	return ""
}

// startOfficerWizard opens officer enrollment from the Officers screen.
func (m *Model) startOfficerWizard() tea.Cmd {
	if !auth.Allowed(m.user(), model.RoleSuperAdmin, model.RoleAdminOfficer) {
		return m.toast.Show(auth.Notice{Level: auth.NoticeError, Message: "You do not have permission to enroll officers"})
	}
	m.officerWiz = newOfficerWizardForm(auth.NewOfficerWizard(m.client))
	m.view = viewOfficerWizard
	client := m.client
	return func() tea.Msg {
		stations, err := client.ListStations(context.Background())
		return stationsMsg{stations: stations, err: err}
	}
}

func (m Model) updateOfficerWizard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.officerWiz
	if msg.String() == "esc" {
		f.wiz.Cancel()
		m.officerWiz = nil
		return m, m.switchView(viewOfficers)
	}

	switch f.wiz.Step() {
	case auth.OfficerStepVerification:
		switch msg.String() {
		case "left":
			if len(f.stations) > 0 {
				f.stationIdx = (f.stationIdx + len(f.stations) - 1) % len(f.stations)
			}
			return m, nil
		case "right":
			if len(f.stations) > 0 {
				f.stationIdx = (f.stationIdx + 1) % len(f.stations)
			}
			return m, nil
		case "enter":
			badge := f.badge.Value()
			station := f.stationCode()
			f.errMsg = ""
			wiz := f.wiz
			return m, tea.Batch(
				m.loader.Start("requesting verification"),
				func() tea.Msg {
					return wizardStepMsg{err: wiz.SubmitVerification(context.Background(), badge, station)}
				},
			)
		}
		var cmd tea.Cmd
		f.badge, cmd = f.badge.Update(msg)
		return m, cmd

	case auth.OfficerStepOTP:
		if msg.String() == "enter" {
			otp := f.otp.Value()
			f.errMsg = ""
			wiz := f.wiz
			return m, tea.Batch(
				m.loader.Start("verifying code"),
				func() tea.Msg {
					return wizardStepMsg{err: wiz.SubmitOTP(context.Background(), otp)}
				},
			)
		}
		var cmd tea.Cmd
		f.otp, cmd = f.otp.Update(msg)
		return m, cmd

	case auth.OfficerStepDetails:
		switch msg.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.fields))
			return m, nil
		case "shift+tab", "up":
			f.setFocus((f.focus + len(f.fields) - 1) % len(f.fields))
			return m, nil
		case "left":
			f.posIdx = (f.posIdx + len(model.PolicePositions) - 1) % len(model.PolicePositions)
			return m, nil
		case "right":
			f.posIdx = (f.posIdx + 1) % len(model.PolicePositions)
			return m, nil
		case "enter":
			details := auth.OfficerDetails{
				Name:     f.fields[0].Value(),
				Email:    f.fields[1].Value(),
				Password: f.fields[2].Value(),
				Position: model.PolicePositions[f.posIdx],
			}
			f.errMsg = ""
			wiz := f.wiz
			return m, tea.Batch(
				m.loader.Start("creating account"),
				func() tea.Msg {
					return wizardStepMsg{err: wiz.SubmitDetails(context.Background(), details)}
				},
			)
		}
		var cmd tea.Cmd
		f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
		return m, cmd

	case auth.OfficerStepComplete:
		// Back to the listing, which reloads with the new account.
		m.officerWiz = nil
		return m, m.switchView(viewOfficers)
	}
	return m, nil
}

func (m Model) viewOfficerWizard() string {
	f := m.officerWiz
	if f == nil {
		return ""
	}

	switch f.wiz.Step() {
	case auth.OfficerStepVerification:
		station := "loading stations..."
		if len(f.stations) > 0 {
			s := f.stations[f.stationIdx]
			station = s.StationCode + " · " + s.Name
		}
		lines := []string{
			styles.Title.Render("Officer Enrollment"),
			styles.Subtitle.Render("A verification code will be emailed to the station."),
			"",
			styles.Label.Render("Badge") + f.badge.View(),
			styles.Label.Render("Station") + styles.ActiveTab.Render(station) + styles.Hint.Render("  ←/→ change"),
		}
		if f.errMsg != "" {
			lines = append(lines, "", styles.ErrorText.Render(f.errMsg))
		}
		lines = append(lines, "", styles.Hint.Render("enter request code · esc back"))
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	case auth.OfficerStepOTP:
		lines := []string{
			styles.Title.Render("Station Verification"),
			styles.Subtitle.Render("Enter the code emailed to the station's official address."),
			"",
			styles.Label.Render("Code") + f.otp.View(),
		}
		if f.errMsg != "" {
			lines = append(lines, "", styles.ErrorText.Render(f.errMsg))
		}
		lines = append(lines, "", styles.Hint.Render("enter verify · esc cancel"))
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	case auth.OfficerStepDetails:
		labels := []string{"Name", "Email", "Password"}
		lines := []string{styles.Title.Render("Officer Details"), ""}
		for i := range f.fields {
			lines = append(lines, styles.Label.Render(labels[i])+f.fields[i].View())
		}
		lines = append(lines,
			styles.Label.Render("Position")+styles.ActiveTab.Render(model.PolicePositions[f.posIdx])+styles.Hint.Render("  ←/→ change"))
		if f.errMsg != "" {
			lines = append(lines, "", styles.ErrorText.Render(f.errMsg))
		}
		lines = append(lines, "", styles.Hint.Render("enter create · esc cancel"))
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	default:
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render("Officer Enrolled"),
			styles.SuccessText.Render("The officer account has been created."),
			styles.Hint.Render("press any key to return"),
		))
	}
}

// =============================================================================
// SHARED RESULTS
// =============================================================================

func (m Model) updateWizardResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wizardStepMsg:
		m.loader.Stop()
		var form interface{ fail(string) }
		switch {
		case m.view == viewAdminWizard && m.adminWiz != nil:
			form = m.adminWiz
		case m.view == viewOfficerWizard && m.officerWiz != nil:
			form = m.officerWiz
		default:
			return m, nil
		}
		if msg.err != nil {
			form.fail(msg.err.Error())
			return m, nil
		}
		// Steps advance inside the wizard; reset focus for the new step.
		if m.adminWiz != nil && m.view == viewAdminWizard {
			if m.adminWiz.wiz.Step() == auth.AdminStepTwoFactor {
				m.adminWiz.code.Focus()
			}
		}
		if m.officerWiz != nil && m.view == viewOfficerWizard {
			switch m.officerWiz.wiz.Step() {
			case auth.OfficerStepOTP:
				m.officerWiz.otp.Focus()
			case auth.OfficerStepDetails:
				m.officerWiz.setFocus(0)
			}
		}
		return m, nil

	case stationsMsg:
		if m.officerWiz == nil {
			return m, nil
		}
		if msg.err != nil {
			m.officerWiz.errMsg = msg.err.Error()
			return m, nil
		}
		m.officerWiz.stations = msg.stations
		m.officerWiz.stationIdx = 0
		return m, nil
	}
	return m, nil
}

func (f *adminWizardForm) fail(msg string)   { f.errMsg = msg }
func (f *officerWizardForm) fail(msg string) { f.errMsg = msg }
