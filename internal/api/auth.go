// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jeranaias/efine-tui/internal/model"
)

// =============================================================================
// LOGIN
// =============================================================================

// LoginResult is the outcome of a login attempt. Either Token+User are
// set, or TwoFactorRequired is true and the caller must retry the same
// credentials with a TOTP code.
type LoginResult struct {
	Token             string          `json:"token"`
	User              model.AdminUser `json:"user"`
	TwoFactorRequired bool            `json:"requireTwoFactor"`
	Message           string          `json:"message"`
}

type loginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	TOTPToken string `json:"totpToken,omitempty"`
}

// Login authenticates an admin. totpToken is empty on the first attempt.
//
// Accounts with 2FA enabled answer the first attempt with an
// unauthorized-class status whose body carries requireTwoFactor:true;
// that is a challenge, not a failure, so the raw exchange is inspected
// here instead of going through the usual status mapping. Login never
// triggers 401 session teardown.
func (c *Client) Login(ctx context.Context, email, password, totpToken string) (*LoginResult, error) {
	req := loginRequest{Email: email, Password: password, TOTPToken: totpToken}
	status, data, err := c.roundTrip(ctx, http.MethodPost, "/admin/login", nil, req, false)
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if jsonErr := json.Unmarshal(data, &result); jsonErr == nil && result.TwoFactorRequired {
		result.Token = ""
		return &result, nil
	}

	if status >= 400 {
		msg := serverMessage(data)
		if msg == "" {
			msg = "login failed"
		}
		return nil, &ClientError{Type: ErrTypeRequest, Message: msg, Status: status}
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected response from server", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// ADMIN REGISTRATION
// =============================================================================

// AdminAccountRequest is the new account's form data. The server
// validates it at init and receives it again unchanged on completion.
type AdminAccountRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Phone    string     `json:"phone,omitempty"`
	Role     model.Role `json:"role"`
}

// RegisterInitResult carries the provisional TOTP secret for the admin
// registration wizard. The secret must be sent back unchanged on
// completion; the server has not stored it yet.
type RegisterInitResult struct {
	TempSecret string `json:"tempSecret"`
	QRCodeURL  string `json:"qrCodeUrl"`
}

// RegisterInit starts admin registration: the signed-in super admin
// submits the new account's details and receives a provisional TOTP
// secret with its otpauth:// provisioning URL.
func (c *Client) RegisterInit(ctx context.Context, req AdminAccountRequest) (*RegisterInitResult, error) {
	var result RegisterInitResult
	if err := c.do(ctx, http.MethodPost, "/admin/register/init", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterAdminRequest completes admin registration: the same account
// details plus the provisional secret and a current TOTP code proving
// the authenticator was enrolled.
type RegisterAdminRequest struct {
	AdminAccountRequest
	Secret string `json:"secret"`
	Token  string `json:"token"`
}

// RegisterComplete finishes admin registration. On success the account
// exists with 2FA already enabled; the new admin signs in normally.
func (c *Client) RegisterComplete(ctx context.Context, req RegisterAdminRequest) (*model.AdminUser, error) {
	var result struct {
		User model.AdminUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/register/complete", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// =============================================================================
// TWO-FACTOR MANAGEMENT
// =============================================================================

// TwoFactorSetup is a fresh TOTP secret for enabling 2FA on an existing
// account.
type TwoFactorSetup struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qrCodeUrl"`
}

// TwoFactorGenerate requests a new provisional TOTP secret for the
// signed-in admin. Nothing changes on the account until Enable.
func (c *Client) TwoFactorGenerate(ctx context.Context) (*TwoFactorSetup, error) {
	var result TwoFactorSetup
	if err := c.do(ctx, http.MethodPost, "/admin/2fa/generate", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TwoFactorEnable turns on 2FA using the secret from TwoFactorGenerate
// and a current code from the authenticator. Returns the updated profile.
func (c *Client) TwoFactorEnable(ctx context.Context, token, secret string) (*model.AdminUser, error) {
	req := struct {
		Token  string `json:"token"`
		Secret string `json:"secret"`
	}{Token: token, Secret: secret}
	var result struct {
		User model.AdminUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/2fa/enable", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// TwoFactorDisable turns off 2FA. The account password is required as
// confirmation. Returns the updated profile.
func (c *Client) TwoFactorDisable(ctx context.Context, password string) (*model.AdminUser, error) {
	req := struct {
		Password string `json:"password"`
	}{Password: password}
	var result struct {
		User model.AdminUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/2fa/disable", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// =============================================================================
// OFFICER ENROLLMENT
// =============================================================================

// RequestVerification asks the backend to email a one-time code to the
// station's official address for the given badge number.
func (c *Client) RequestVerification(ctx context.Context, badgeNumber, stationCode string) error {
	req := struct {
		BadgeNumber string `json:"badgeNumber"`
		StationCode string `json:"stationCode"`
	}{BadgeNumber: badgeNumber, StationCode: stationCode}
	return c.do(ctx, http.MethodPost, "/auth/request-verification", nil, req, nil)
}

// VerifyOTP checks the emailed code. The code stays valid afterwards;
// RegisterPolice must resend it byte-identical.
func (c *Client) VerifyOTP(ctx context.Context, badgeNumber, otp string) error {
	req := struct {
		BadgeNumber string `json:"badgeNumber"`
		OTP         string `json:"otp"`
	}{BadgeNumber: badgeNumber, OTP: otp}
	return c.do(ctx, http.MethodPost, "/auth/verify-otp", nil, req, nil)
}

// RegisterOfficerRequest completes officer enrollment. OTP must be the
// exact string the user entered at the verification step; the server
// re-validates it against the same emailed code.
type RegisterOfficerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	BadgeNumber string `json:"badgeNumber"`
	StationCode string `json:"stationCode"`
	Position    string `json:"position"`
	OTP         string `json:"otp"`
}

// RegisterPolice creates the officer account.
func (c *Client) RegisterPolice(ctx context.Context, req RegisterOfficerRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register-police", nil, req, nil)
}
