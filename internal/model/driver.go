// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// LicenseStatus is the state of a driving license.
type LicenseStatus string

const (
	LicenseActive    LicenseStatus = "Active"
	LicenseSuspended LicenseStatus = "Suspended"
)

// VehicleClass is a license category entry on a driver record.
type VehicleClass struct {
	Category   string `json:"category"`
	IssueDate  string `json:"issueDate"`
	ExpiryDate string `json:"expiryDate"`
}

// Driver is a registered driver account with license details.
type Driver struct {
	ID                string         `json:"_id"`
	Name              string         `json:"name"`
	NIC               string         `json:"nic"`
	LicenseNumber     string         `json:"licenseNumber"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	DemeritPoints     int            `json:"demeritPoints"`
	LicenseStatus     LicenseStatus  `json:"licenseStatus"`
	IsVerified        bool           `json:"isVerified"`
	LicenseIssueDate  string         `json:"licenseIssueDate,omitempty"`
	LicenseExpiryDate string         `json:"licenseExpiryDate,omitempty"`
	DateOfBirth       string         `json:"dateOfBirth,omitempty"`
	Address           string         `json:"address,omitempty"`
	City              string         `json:"city,omitempty"`
	PostalCode        string         `json:"postalCode,omitempty"`
	VehicleClasses    []VehicleClass `json:"vehicleClasses,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}
