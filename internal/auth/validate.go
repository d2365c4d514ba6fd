// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"fmt"
	"strings"

	"github.com/jeranaias/efine-tui/internal/util"
)

// =============================================================================
// LOCAL VALIDATION
// =============================================================================

// MinPasswordLength matches the backend's password policy.
const MinPasswordLength = 6

// CodeLength is the length of TOTP and emailed verification codes.
const CodeLength = 6

// ValidationError is a pre-submit field check failure. It is surfaced
// inline next to the field and never sent to the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateRequired checks that a field is non-blank.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateEmail checks the rough shape of an email address. Real
// deliverability is the backend's problem.
func ValidateEmail(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	at := strings.Index(value, "@")
	if at < 1 || at == len(value)-1 || !strings.Contains(value[at+1:], ".") {
		return &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	return nil
}

// ValidatePassword enforces the minimum length.
func ValidatePassword(value string) error {
	if len(value) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}
	return nil
}

// ValidateCode checks a 6-digit verification code.
func ValidateCode(field, value string) error {
	if len(value) != CodeLength || !util.Digits(value) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be %d digits", CodeLength),
		}
	}
	return nil
}
