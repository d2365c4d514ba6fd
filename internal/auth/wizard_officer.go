// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"

	"github.com/jeranaias/efine-tui/internal/api"
)

// =============================================================================
// OFFICER ENROLLMENT WIZARD
// =============================================================================

// OfficerStep is the officer creation wizard's position.
type OfficerStep int

const (
	// OfficerStepVerification collects badge number and station.
	OfficerStepVerification OfficerStep = iota
	// OfficerStepOTP collects the code emailed to the station.
	OfficerStepOTP
	// OfficerStepDetails collects the account fields.
	OfficerStepDetails
	// OfficerStepComplete means the officer account exists.
	OfficerStepComplete
)

// OfficerDetails are the account fields collected at the final step.
type OfficerDetails struct {
	Name     string
	Email    string
	Password string
	Position string
}

// OfficerWizard walks officer enrollment: badge verification, emailed
// OTP, then account details. The backend does not retain OTP state
// between the verify and register calls, so the exact code captured at
// the OTP step is resent byte-identical with the final submission no
// matter how many times the details step is retried.
type OfficerWizard struct {
	client *api.Client

	step        OfficerStep
	badgeNumber string
	stationCode string
	otp         string
}

// NewOfficerWizard creates a wizard at the verification step.
func NewOfficerWizard(client *api.Client) *OfficerWizard {
	return &OfficerWizard{client: client}
}

// Step returns the wizard's current step.
func (w *OfficerWizard) Step() OfficerStep { return w.step }

// BadgeNumber returns the badge captured at step one.
func (w *OfficerWizard) BadgeNumber() string { return w.badgeNumber }

// SubmitVerification requests an OTP for the badge at the station's
// official email address.
func (w *OfficerWizard) SubmitVerification(ctx context.Context, badgeNumber, stationCode string) error {
	if w.step != OfficerStepVerification {
		return errors.New("wizard is past the verification step")
	}
	if err := ValidateRequired("badge number", badgeNumber); err != nil {
		return err
	}
	if err := ValidateRequired("station", stationCode); err != nil {
		return err
	}

	if err := w.client.RequestVerification(ctx, badgeNumber, stationCode); err != nil {
		return err
	}

	w.badgeNumber = badgeNumber
	w.stationCode = stationCode
	w.step = OfficerStepOTP
	return nil
}

// SubmitOTP verifies the emailed code. On success the code is kept for
// the final submission.
func (w *OfficerWizard) SubmitOTP(ctx context.Context, otp string) error {
	if w.step != OfficerStepOTP {
		return errors.New("wizard is not at the code step")
	}
	if err := ValidateCode("code", otp); err != nil {
		return err
	}

	if err := w.client.VerifyOTP(ctx, w.badgeNumber, otp); err != nil {
		return err
	}

	w.otp = otp
	w.step = OfficerStepDetails
	return nil
}

// SubmitDetails creates the officer account. A failure keeps the wizard
// on this step; resubmitting with edited fields still carries the
// original OTP unchanged.
func (w *OfficerWizard) SubmitDetails(ctx context.Context, d OfficerDetails) error {
	if w.step != OfficerStepDetails {
		return errors.New("wizard is not at the details step")
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
	if err := ValidateRequired("position", d.Position); err != nil {
		return err
	}

	err := w.client.RegisterPolice(ctx, api.RegisterOfficerRequest{
		Name:        d.Name,
		Email:       d.Email,
		Password:    d.Password,
		BadgeNumber: w.badgeNumber,
		StationCode: w.stationCode,
		Position:    d.Position,
		OTP:         w.otp,
	})
	if err != nil {
		return err
	}

	w.step = OfficerStepComplete
	w.otp = ""
	return nil
}

// Cancel abandons the wizard and drops the captured OTP.
func (w *OfficerWizard) Cancel() {
	*w = OfficerWizard{client: w.client}
}
