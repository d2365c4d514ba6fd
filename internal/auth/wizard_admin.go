// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"

	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/model"
)

// =============================================================================
// ADMIN REGISTRATION WIZARD
// =============================================================================

// AdminStep is the admin creation wizard's position.
type AdminStep int

const (
	// AdminStepDetails collects the account fields.
	AdminStepDetails AdminStep = iota
	// AdminStepTwoFactor shows the QR code and collects a TOTP code.
	AdminStepTwoFactor
	// AdminStepComplete means the account exists with 2FA enabled.
	AdminStepComplete
)

// AdminDetails are the account fields collected at step one.
type AdminDetails struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     model.Role
}

// AdminWizard walks admin creation: details, then mandatory 2FA
// enrollment. The provisional secret received after step one is carried
// unmodified into the completion call and exists nowhere else; Cancel
// wipes it. Each transition is one backend call, never retried.
type AdminWizard struct {
	client *api.Client

	step    AdminStep
	details AdminDetails

	// Enrollment state, transient. Never persisted.
	tempSecret string
	qrCodeURL  string
}

// NewAdminWizard creates a wizard at the details step.
func NewAdminWizard(client *api.Client) *AdminWizard {
	return &AdminWizard{client: client}
}

// Step returns the wizard's current step.
func (w *AdminWizard) Step() AdminStep { return w.step }

// QRCodeURL returns the otpauth:// provisioning URL for step two.
func (w *AdminWizard) QRCodeURL() string { return w.qrCodeURL }

// TempSecret returns the provisional secret for manual authenticator
// entry at step two.
func (w *AdminWizard) TempSecret() string { return w.tempSecret }

// SubmitDetails validates the account fields and starts enrollment. On
// success the wizard advances to the 2FA step; on failure it stays put
// and the backend message is surfaced verbatim by the caller.
func (w *AdminWizard) SubmitDetails(ctx context.Context, d AdminDetails) error {
	if w.step != AdminStepDetails {
		return errors.New("wizard is past the details step")
	}
	if err := ValidateRequired("name", d.Name); err != nil {
		return err
	}
	if err := ValidateEmail(d.Email); err != nil {
		return err
	}
	if err := ValidatePassword(d.Password); err != nil {
		return err
	}
	if !d.Role.Valid() {
		return &ValidationError{Field: "role", Message: "must be a known role"}
	}

	result, err := w.client.RegisterInit(ctx, api.AdminAccountRequest{
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
		Phone:    d.Phone,
		Role:     d.Role,
	})
	if err != nil {
		return err
	}

	w.details = d
	w.tempSecret = result.TempSecret
	w.qrCodeURL = result.QRCodeURL
	w.step = AdminStepTwoFactor
	return nil
}

// SubmitCode completes registration with a TOTP code from the freshly
// enrolled authenticator. The code is checked locally against the
// provisional secret first to save a round trip on typos; the backend
// remains the final authority.
func (w *AdminWizard) SubmitCode(ctx context.Context, code string) (*model.AdminUser, error) {
	if w.step != AdminStepTwoFactor {
		return nil, errors.New("wizard is not at the verification step")
	}
	if err := ValidateCode("code", code); err != nil {
		return nil, err
	}
	if !totp.Validate(code, w.tempSecret) {
		return nil, &ValidationError{Field: "code", Message: "does not match the enrolled authenticator"}
	}

	user, err := w.client.RegisterComplete(ctx, api.RegisterAdminRequest{
		AdminAccountRequest: api.AdminAccountRequest{
			Name:     w.details.Name,
			Email:    w.details.Email,
			Password: w.details.Password,
			Phone:    w.details.Phone,
			Role:     w.details.Role,
		},
		Secret: w.tempSecret,
		Token:  code,
	})
	if err != nil {
		return nil, err
	}

	w.step = AdminStepComplete
	w.wipe()
	return user, nil
}

// Cancel abandons the wizard and discards the provisional secret. The
// server never committed it, so nothing is left behind on either side.
func (w *AdminWizard) Cancel() {
	w.step = AdminStepDetails
	w.details = AdminDetails{}
	w.wipe()
}

func (w *AdminWizard) wipe() {
	w.tempSecret = ""
	w.qrCodeURL = ""
	w.details.Password = ""
}
