// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the authenticated portal session.
//
// A session is the bearer token plus the signed-in admin profile. It is
// persisted under ~/.efine so the console stays signed in across runs,
// sealed with a locally-stored random key so a casual file read does not
// expose the token. Clearing the session is how logout and 401 teardown
// are implemented; both go through the same Store.
package session
