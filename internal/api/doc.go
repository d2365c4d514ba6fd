// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the eFine backend REST API.
//
// All console traffic goes through a single Client. The client attaches
// the bearer token from a TokenSource, categorizes failures into typed
// errors, and fires an OnUnauthorized hook whenever an authenticated
// request comes back 401 so the rest of the app can tear the session
// down in one place. Requests are never retried; a rate limiter only
// smooths bursts from rapid navigation.
package api
