// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/jeranaias/efine-tui/internal/model"
)

func TestAllowed(t *testing.T) {
	super := &model.AdminUser{ID: "1", Role: model.RoleSuperAdmin}
	finance := &model.AdminUser{ID: "2", Role: model.RoleFinanceOfficer}

	tests := []struct {
		name     string
		user     *model.AdminUser
		required []model.Role
		want     bool
	}{
		{"nil user always denied", nil, []model.Role{model.RoleSuperAdmin}, false},
		{"nil user denied even with no roles", nil, nil, false},
		{"role in set", super, []model.Role{model.RoleSuperAdmin, model.RoleAdminOfficer}, true},
		{"role not in set", finance, []model.Role{model.RoleSuperAdmin, model.RoleAdminOfficer}, false},
		{"empty set allows any signed-in user", finance, nil, true},
		{"single match", finance, []model.Role{model.RoleFinanceOfficer}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.user, tt.required...); got != tt.want {
				t.Errorf("Allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	if err := ValidateEmail("a@x.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"", "plain", "@x.com", "a@", "a@nodot"} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("email %q accepted", bad)
		}
	}

	if err := ValidatePassword("pw1234"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if err := ValidatePassword("pw123"); err == nil {
		t.Error("5-char password accepted")
	}

	if err := ValidateCode("code", "123456"); err != nil {
		t.Errorf("valid code rejected: %v", err)
	}
	for _, bad := range []string{"12345", "1234567", "12345a", ""} {
		if err := ValidateCode("code", bad); err == nil {
			t.Errorf("code %q accepted", bad)
		}
	}
}
