// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "github.com/jeranaias/efine-tui/internal/model"

// Allowed reports whether user may access a screen restricted to the
// given roles. A nil user is always denied. An empty role list means any
// signed-in user is allowed. Pure function, no side effects.
func Allowed(user *model.AdminUser, required ...model.Role) bool {
	if user == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if user.Role == r {
			return true
		}
	}
	return false
}
