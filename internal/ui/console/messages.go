// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/storage"
)

// =============================================================================
// MESSAGES
// =============================================================================

// viewTag identifies which navigation epoch a response belongs to.
// Responses tagged with an older epoch are dropped on arrival.
type viewTag int

// noticeMsg carries a controller notification into the update loop.
type noticeMsg auth.Notice

// navigateMsg carries a controller navigation request.
type navigateMsg auth.Route

// loginDoneMsg reports a password submit. The controller already moved
// its own state; err is only for keeping the form on screen.
type loginDoneMsg struct {
	err error
}

// codeDoneMsg reports a TOTP code submit.
type codeDoneMsg struct {
	err error
}

// dashboardMsg carries the dashboard payload.
type dashboardMsg struct {
	tag  viewTag
	dash *api.Dashboard
	err  error
}

// driversMsg carries one page of drivers.
type driversMsg struct {
	tag  viewTag
	page *api.Page[model.Driver]
	err  error
}

// officersMsg carries one page of officers.
type officersMsg struct {
	tag  viewTag
	page *api.Page[model.Officer]
	err  error
}

// offensesMsg carries one page of offense types.
type offensesMsg struct {
	tag  viewTag
	page *api.Page[model.Offense]
	err  error
}

// finesMsg carries one page of issued fines.
type finesMsg struct {
	tag  viewTag
	page *api.Page[model.IssuedFine]
	err  error
}

// paymentsMsg carries one page of payments.
type paymentsMsg struct {
	tag  viewTag
	page *api.Page[model.IssuedFine]
	err  error
}

// actionDoneMsg reports a row action (suspend, activate, delete). The
// listing reloads on success.
type actionDoneMsg struct {
	tag  viewTag
	info string
	err  error
}

// reportDoneMsg reports a generated, archived and exported report.
type reportDoneMsg struct {
	tag  viewTag
	rec  *storage.ArchivedReport
	path string
	err  error
}

// archiveListMsg carries the local archive listing.
type archiveListMsg struct {
	tag     viewTag
	reports []storage.ArchivedReport
	err     error
}

// twoFactorSetupMsg carries a fresh secret for the settings screen.
type twoFactorSetupMsg struct {
	setup *api.TwoFactorSetup
	err   error
}

// twoFactorToggledMsg reports an enable/disable round trip.
type twoFactorToggledMsg struct {
	user *model.AdminUser
	err  error
}

// wizardStepMsg reports one wizard transition; the wizard itself holds
// the resulting step.
type wizardStepMsg struct {
	err error
}

// stationsMsg carries the station list for the officer wizard.
type stationsMsg struct {
	stations []model.Station
	err      error
}
