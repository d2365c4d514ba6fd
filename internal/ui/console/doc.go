// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console implements the interactive terminal UI.
//
// One Bubble Tea model owns the whole screen. Network calls run as
// commands; every response message carries the view tag that was
// current when the request started, and messages with a stale tag are
// dropped so a late response never mutates a screen the user has left.
// Controller side effects (navigation, notices) arrive over an event
// channel as ordinary messages.
package console
