// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth orchestrates sign-in, sign-out and account enrollment.
//
// The Controller is a small state machine over Anonymous,
// AwaitingTwoFactor and Authenticated. It owns all writes to the session
// store; the UI only renders what the controller reports. Navigation and
// notifications are emitted through callbacks so the controller stays
// testable without a terminal attached.
//
// The registration wizards are explicit step machines: each transition
// fires exactly one backend call, a failed call keeps the wizard on the
// same step, and nothing is retried automatically.
package auth
