// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive command surface: sign in
// and out, status, configuration, and report generation without
// launching the full terminal UI. Every command supports --json for
// scripting.
package cli
