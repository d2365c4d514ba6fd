// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN FORM
// =============================================================================

// loginForm holds the sign-in fields and, after a challenge, the TOTP
// code entry. The password stays in the controller during the code step;
// only the code is re-entered.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	code     textinput.Model
	focus    int
	errMsg   string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6

	return loginForm{email: email, password: password, code: code}
}

func (f *loginForm) setFocus(i int) {
	f.focus = i
	inputs := []*textinput.Model{&f.email, &f.password}
	for idx, in := range inputs {
		if idx == i {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewTwoFactor {
		return m.updateTwoFactor(msg)
	}

	switch msg.String() {
	case "tab", "down":
		m.login.setFocus((m.login.focus + 1) % 2)
		return m, nil
	case "shift+tab", "up":
		m.login.setFocus((m.login.focus - 1 + 2) % 2)
		return m, nil
	case "enter":
		email := m.login.email.Value()
		password := m.login.password.Value()
		m.login.errMsg = ""
		ctrl := m.ctrl
		return m, tea.Batch(
			m.loader.Start("signing in"),
			func() tea.Msg {
				return loginDoneMsg{err: ctrl.Login(context.Background(), email, password)}
			},
		)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateTwoFactor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelTwoFactor()
		m.view = viewLogin
		m.login = newLoginForm()
		return m, nil
	case "enter":
		code := m.login.code.Value()
		m.login.errMsg = ""
		ctrl := m.ctrl
		return m, tea.Batch(
			m.loader.Start("verifying code"),
			func() tea.Msg {
				return codeDoneMsg{err: ctrl.SubmitTwoFactorCode(context.Background(), code)}
			},
		)
	}
	var cmd tea.Cmd
	m.login.code, cmd = m.login.code.Update(msg)
	return m, cmd
}

func (m Model) updateLoginResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.loader.Stop()

	var err error
	switch msg := msg.(type) {
	case loginDoneMsg:
		err = msg.err
	case codeDoneMsg:
		err = msg.err
	}

	if err != nil {
		var ve *auth.ValidationError
		if errors.As(err, &ve) {
			// Local check: inline, never a toast.
			m.login.errMsg = ve.Error()
		}
		return m, nil
	}

	// Success paths arrive as navigateMsg from the controller hooks. The
	// only local transition is entering the code step.
	if m.ctrl.State() == auth.StateAwaitingTwoFactor {
		m.view = viewTwoFactor
		m.login.code.Focus()
		m.login.email.Blur()
		m.login.password.Blur()
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m Model) viewLogin() string {
	if m.view == viewTwoFactor {
		lines := []string{
			styles.Title.Render("Two-Factor Verification"),
			styles.Subtitle.Render("Enter the code from your authenticator app."),
			"",
			m.login.code.View(),
		}
		if m.login.errMsg != "" {
			lines = append(lines, styles.ErrorText.Render(m.login.errMsg))
		}
		lines = append(lines, "", styles.Hint.Render("enter verify · esc back"))
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	lines := []string{
		styles.Title.Render("eFine Admin Console"),
		"",
		styles.Label.Render("Email") + m.login.email.View(),
		styles.Label.Render("Password") + m.login.password.View(),
	}
	if m.login.errMsg != "" {
		lines = append(lines, "", styles.ErrorText.Render(m.login.errMsg))
	}
	lines = append(lines, "", styles.Hint.Render("enter sign in · ctrl+c quit"))
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
