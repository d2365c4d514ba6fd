// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/session"
)

// =============================================================================
// STATES AND EVENTS
// =============================================================================

// State is the controller's authentication state.
type State int

const (
	// StateAnonymous means no session exists.
	StateAnonymous State = iota
	// StateAwaitingTwoFactor means the password was accepted and a TOTP
	// code is pending. No token exists yet.
	StateAwaitingTwoFactor
	// StateAuthenticated means a session exists.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAwaitingTwoFactor:
		return "awaiting-two-factor"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Route is a navigation target the controller asks the UI to go to.
type Route int

const (
	RouteLogin Route = iota
	RouteDashboard
	RouteSettings
)

// NoticeLevel classifies a user-facing notification.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Notice is a transient user-facing notification.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Hooks are the controller's outbound side effects. Either may be nil.
type Hooks struct {
	// Navigate asks the UI to switch to a route.
	Navigate func(Route)
	// Notify shows a transient notification.
	Notify func(Notice)
}

// EnforcedTwoFactorMessage is shown when sign-out is refused because the
// account has not enabled 2FA yet.
const EnforcedTwoFactorMessage = "Two-factor authentication must be enabled before signing out. Set it up under Security Settings."

// ErrLogoutBlocked is returned when logout(force=false) is refused by
// the enforced-2FA policy. The session is untouched.
var ErrLogoutBlocked = errors.New("sign-out blocked until two-factor authentication is enabled")

// ErrNotAuthenticated is returned for operations that need a session.
var ErrNotAuthenticated = errors.New("not signed in")

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns authentication state. It is the only writer of the
// session store; every login, logout and 401 teardown flows through it.
type Controller struct {
	mu       sync.Mutex
	client   *api.Client
	sessions *session.Store
	hooks    Hooks

	state State

	// Pending credentials, held only while awaiting a TOTP code and
	// discarded on every exit from that state. Never persisted.
	pendingEmail    string
	pendingPassword string
}

// NewController builds a controller and bootstraps its state from the
// session store: an existing session starts Authenticated without
// re-validating the token (trust-on-read); anything unreadable is torn
// down to a clean Anonymous.
//
// The controller registers itself as the client's 401 hook, so global
// teardown happens before any API error reaches a caller.
func NewController(client *api.Client, sessions *session.Store, hooks Hooks) *Controller {
	c := &Controller{
		client:   client,
		sessions: sessions,
		hooks:    hooks,
		state:    StateAnonymous,
	}

	if _, err := sessions.Load(); err == nil {
		c.state = StateAuthenticated
	} else if !errors.Is(err, session.ErrNoSession) {
		// Unreadable session: force a clean slate.
		c.Logout(true)
	}

	client.SetOnUnauthorized(c.handleUnauthorized)
	return c
}

// State returns the current authentication state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the signed-in admin, if any.
func (c *Controller) User() (model.AdminUser, bool) {
	return c.sessions.User()
}

// =============================================================================
// LOGIN
// =============================================================================

// Login attempts a password sign-in. On a two-factor challenge the
// controller moves to AwaitingTwoFactor, keeps the credentials for the
// code retry, and writes nothing to the session store. On success the
// session is saved and the UI is sent to the dashboard.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	result, err := c.client.Login(ctx, email, password, "")
	if err != nil {
		c.notify(Notice{Level: NoticeError, Message: errMessage(err)})
		return err
	}

	if result.TwoFactorRequired {
		c.mu.Lock()
		c.state = StateAwaitingTwoFactor
		c.pendingEmail = email
		c.pendingPassword = password
		c.mu.Unlock()
		c.notify(Notice{Level: NoticeInfo, Message: "Enter the 6-digit code from your authenticator app."})
		return nil
	}

	return c.completeLogin(result)
}

// SubmitTwoFactorCode retries the pending login with a TOTP code. A
// wrong or expired code keeps the controller in AwaitingTwoFactor; only
// the code is re-entered, not the password.
func (c *Controller) SubmitTwoFactorCode(ctx context.Context, code string) error {
	c.mu.Lock()
	if c.state != StateAwaitingTwoFactor {
		c.mu.Unlock()
		return errors.New("no two-factor challenge pending")
	}
	email, password := c.pendingEmail, c.pendingPassword
	c.mu.Unlock()

	if err := ValidateCode("code", code); err != nil {
		return err
	}

	result, err := c.client.Login(ctx, email, password, code)
	if err != nil {
		c.notify(Notice{Level: NoticeError, Message: errMessage(err)})
		return err
	}
	if result.TwoFactorRequired {
		// Server still challenging; treat as a rejected code.
		msg := result.Message
		if msg == "" {
			msg = "Invalid verification code"
		}
		c.notify(Notice{Level: NoticeError, Message: msg})
		return errors.New(msg)
	}

	return c.completeLogin(result)
}

// CancelTwoFactor abandons a pending challenge and discards the held
// credentials.
func (c *Controller) CancelTwoFactor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAwaitingTwoFactor {
		c.state = StateAnonymous
		c.pendingEmail = ""
		c.pendingPassword = ""
	}
}

func (c *Controller) completeLogin(result *api.LoginResult) error {
	if result.Token == "" || result.User.ID == "" {
		err := errors.New("login response missing token or user")
		c.notify(Notice{Level: NoticeError, Message: "Unexpected response from server"})
		return err
	}

	if err := c.sessions.Save(&session.Session{Token: result.Token, User: result.User}); err != nil {
		c.notify(Notice{Level: NoticeError, Message: "Could not save session: " + err.Error()})
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.pendingEmail = ""
	c.pendingPassword = ""
	c.mu.Unlock()

	c.notify(Notice{Level: NoticeSuccess, Message: "Signed in as " + result.User.Name})
	c.navigate(RouteDashboard)
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// Logout ends the session. With force=false the enforced-2FA policy
// applies: an account that has not enabled 2FA is kept signed in and
// sent to security settings instead. force=true always clears, and is
// the path used for corrupt-session recovery and 401 teardown.
func (c *Controller) Logout(force bool) error {
	if !force {
		user, ok := c.sessions.User()
		if ok && !user.IsTwoFactorEnabled {
			c.notify(Notice{Level: NoticeError, Message: EnforcedTwoFactorMessage})
			c.navigate(RouteSettings)
			return ErrLogoutBlocked
		}
	}

	// Clear before redirect, so nothing in flight can pick up a stale
	// token after the UI moves.
	if err := c.sessions.Clear(); err != nil && !force {
		c.notify(Notice{Level: NoticeError, Message: "Could not clear session: " + err.Error()})
		return err
	}

	c.mu.Lock()
	c.state = StateAnonymous
	c.pendingEmail = ""
	c.pendingPassword = ""
	c.mu.Unlock()

	c.notify(Notice{Level: NoticeInfo, Message: "Signed out"})
	c.navigate(RouteLogin)
	return nil
}

// handleUnauthorized is the client's 401 hook: unconditional teardown,
// clear-before-redirect, regardless of which call hit the 401.
func (c *Controller) handleUnauthorized() {
	_ = c.sessions.Clear()

	c.mu.Lock()
	c.state = StateAnonymous
	c.pendingEmail = ""
	c.pendingPassword = ""
	c.mu.Unlock()

	c.notify(Notice{Level: NoticeError, Message: "Session expired. Please sign in again."})
	c.navigate(RouteLogin)
}

// =============================================================================
// PROFILE UPDATES
// =============================================================================

// UpdateUser rewrites the stored profile without touching the token.
// Valid only while authenticated. Used after profile edits and after the
// 2FA enable/disable calls return the updated account.
func (c *Controller) UpdateUser(user model.AdminUser) error {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	c.mu.Unlock()

	return c.sessions.UpdateUser(user)
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Controller) notify(n Notice) {
	if c.hooks.Notify != nil {
		c.hooks.Notify(n)
	}
}

func (c *Controller) navigate(r Route) {
	if c.hooks.Navigate != nil {
		c.hooks.Navigate(r)
	}
}

// errMessage returns the backend's message verbatim when present, else a
// generic fallback.
func errMessage(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return "Something went wrong. Please try again."
}
