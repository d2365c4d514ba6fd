// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - exit code mapping for scriptable failures.

package cli

import (
	"errors"

	"github.com/jeranaias/efine-tui/internal/api"
	"github.com/jeranaias/efine-tui/internal/auth"
	"github.com/jeranaias/efine-tui/internal/storage"
)

// Exit codes, stable for scripts.
const (
	ExitOK       = 0
	ExitError    = 1 // generic failure
	ExitUsage    = 2 // bad arguments
	ExitAuth     = 3 // not signed in / session invalid / logout guard
	ExitNotFound = 4 // requested record does not exist
)

// usageError marks a bad-invocation failure so fail() maps it to ExitUsage.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(msg string) error { return &usageError{msg: msg} }

// exitCode maps an error to its exit code.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ue):
		return ExitUsage
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, auth.ErrLogoutBlocked), errors.Is(err, auth.ErrNotAuthenticated):
		return ExitAuth
	case errors.Is(err, storage.ErrReportNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}
