// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// ROLES
// =============================================================================

// Role identifies an admin portal role. Roles are assigned by the backend
// and are immutable from the console's point of view.
type Role string

const (
	// RoleSuperAdmin has full access, including admin and officer management.
	RoleSuperAdmin Role = "super_admin"

	// RoleAdminOfficer manages drivers, officers and fines.
	RoleAdminOfficer Role = "admin_officer"

	// RoleFinanceOfficer has access to payments and financial reports.
	RoleFinanceOfficer Role = "finance_officer"
)

// Valid reports whether the role is one of the three known portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdminOfficer, RoleFinanceOfficer:
		return true
	}
	return false
}

// Label returns a human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdminOfficer:
		return "Admin Officer"
	case RoleFinanceOfficer:
		return "Finance Officer"
	default:
		return string(r)
	}
}

// =============================================================================
// ADMIN USER
// =============================================================================

// AdminUser is the authenticated portal account.
type AdminUser struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               Role   `json:"role"`
	Phone              string `json:"phone,omitempty"`
	ProfileImage       string `json:"profileImage,omitempty"`
	IsTwoFactorEnabled bool   `json:"isTwoFactorEnabled"`
}
