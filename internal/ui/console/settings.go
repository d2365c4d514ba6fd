// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// SETTINGS STATE
// =============================================================================

type settingsMode int

const (
	settingsIdle settingsMode = iota
	settingsEnabling
	settingsDisabling
)

// settingsState drives the security settings screen: profile display
// and the 2FA enable/disable flows.
type settingsState struct {
	mode   settingsMode
	setup  *api.TwoFactorSetup
	input  textinput.Model
	errMsg string
}

func newSettingsState() settingsState {
	return settingsState{}
}

func (s *settingsState) typing() bool {
	return s.mode != settingsIdle && s.input.Focused()
}

func (s *settingsState) startInput(placeholder string, password bool) {
	in := textinput.New()
	in.Placeholder = placeholder
	if password {
		in.EchoMode = textinput.EchoPassword
	}
	in.CharLimit = 120
	in.Focus()
	s.input = in
	s.errMsg = ""
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.settings.mode {
	case settingsEnabling, settingsDisabling:
		return m.updateSettingsInput(msg)
	}

	user := m.user()
	switch msg.String() {
	case "e":
		if user != nil && !user.IsTwoFactorEnabled {
			client := m.client
			return m, tea.Batch(
				m.loader.Start("requesting secret"),
				func() tea.Msg {
					setup, err := client.TwoFactorGenerate(context.Background())
					return twoFactorSetupMsg{setup: setup, err: err}
				},
			)
		}
		return m, nil
	case "d":
		if user != nil && user.IsTwoFactorEnabled {
			m.settings.mode = settingsDisabling
			m.settings.startInput("account password", true)
		}
		return m, nil
	case "c":
		return m, m.startAdminWizard()
	case "l":
		// The controller refuses and routes to this screen when 2FA is
		// still off; both outcomes arrive as controller events.
		err := m.ctrl.Logout(false)
		if err != nil && !errors.Is(err, auth.ErrLogoutBlocked) {
			return m, m.toast.Show(errNotice(err))
		}
		return m, nil
	case "L":
		if err := m.ctrl.Logout(true); err != nil {
			return m, m.toast.Show(errNotice(err))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.settings = newSettingsState()
		return m, nil
	case "enter":
		value := m.settings.input.Value()
		client := m.client
		if m.settings.mode == settingsEnabling {
			if err := auth.ValidateCode("code", value); err != nil {
				m.settings.errMsg = err.Error()
				return m, nil
			}
			secret := m.settings.setup.Secret
			return m, tea.Batch(
				m.loader.Start("enabling 2FA"),
				func() tea.Msg {
					user, err := client.TwoFactorEnable(context.Background(), value, secret)
					return twoFactorToggledMsg{user: user, err: err}
				},
			)
		}
		if err := auth.ValidatePassword(value); err != nil {
			m.settings.errMsg = err.Error()
			return m, nil
		}
		return m, tea.Batch(
			m.loader.Start("disabling 2FA"),
			func() tea.Msg {
				user, err := client.TwoFactorDisable(context.Background(), value)
				return twoFactorToggledMsg{user: user, err: err}
			},
		)
	}

	var cmd tea.Cmd
	m.settings.input, cmd = m.settings.input.Update(msg)
	return m, cmd
}

func (m Model) updateSettingsResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case twoFactorSetupMsg:
		m.loader.Stop()
		if msg.err != nil {
			return m, m.toast.Show(errNotice(msg.err))
		}
		m.settings.mode = settingsEnabling
		m.settings.setup = msg.setup
		m.settings.startInput("6-digit code", false)
		return m, nil

	case twoFactorToggledMsg:
		m.loader.Stop()
		if msg.err != nil {
			m.settings.errMsg = errMessageText(msg.err)
			return m, nil
		}
		wasEnabling := m.settings.mode == settingsEnabling
		m.settings = newSettingsState()
		if err := m.ctrl.UpdateUser(*msg.user); err != nil {
			return m, m.toast.Show(errNotice(err))
		}
		text := "Two-factor authentication disabled"
		if wasEnabling {
			text = "Two-factor authentication enabled"
		}
		return m, m.toast.Show(auth.Notice{Level: auth.NoticeSuccess, Message: text})
	}
	return m, nil
}

// errMessageText prefers the server's own words when present.
func errMessageText(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return err.Error()
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) viewSettings() string {
	user := m.user()
	if user == nil {
		return styles.Panel.Render(styles.Hint.Render("not signed in"))
	}

	lines := []string{
		styles.Title.Render("Security Settings"),
		"",
		styles.Label.Render("Name") + user.Name,
		styles.Label.Render("Email") + user.Email,
		styles.Label.Render("Role") + user.Role.Label(),
	}
	if user.IsTwoFactorEnabled {
		lines = append(lines, styles.Label.Render("2FA")+styles.SuccessText.Render("enabled"))
	} else {
		lines = append(lines,
			styles.Label.Render("2FA")+styles.WarnText.Render("disabled"),
			styles.WarnText.Render("Two-factor authentication is required before signing out."))
	}

	switch m.settings.mode {
	case settingsEnabling:
		lines = append(lines, "",
			styles.Subtitle.Render("Scan this URL with your authenticator, then enter a code:"),
			m.settings.setup.QRCodeURL,
			styles.Label.Render("Secret")+m.settings.setup.Secret,
			styles.Label.Render("Code")+m.settings.input.View())
	case settingsDisabling:
		lines = append(lines, "",
			styles.Subtitle.Render("Confirm your password to disable 2FA:"),
			styles.Label.Render("Password")+m.settings.input.View())
	}
	if m.settings.errMsg != "" {
		lines = append(lines, "", styles.ErrorText.Render(m.settings.errMsg))
	}

	switch m.settings.mode {
	case settingsIdle:
		hint := "l sign out · L force sign out"
		if user.IsTwoFactorEnabled {
			hint = "d disable 2FA · " + hint
		} else {
			hint = "e enable 2FA · " + hint
		}
		if auth.Allowed(user, model.RoleSuperAdmin) {
			hint += " · c create admin"
		}
		lines = append(lines, "", styles.Hint.Render(hint))
	default:
		lines = append(lines, "", styles.Hint.Render("enter submit · esc back"))
	}

	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
