// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the domain types exchanged with the e-Fine
// backend: admin users, drivers, police officers, offense types, issued
// fines, dashboard statistics and report payloads.
//
// All types mirror the backend's JSON wire shapes; the backend owns the
// data, this package only describes it.
package model
