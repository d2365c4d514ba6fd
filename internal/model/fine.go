// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// FineStatus is the payment state of an issued fine.
type FineStatus string

const (
	FinePaid   FineStatus = "Paid"
	FineUnpaid FineStatus = "Unpaid"
)

// Offense is a fineable offense type from the traffic act.
type Offense struct {
	ID           string    `json:"_id"`
	OffenseName  string    `json:"offenseName"`
	Amount       float64   `json:"amount"`
	Description  string    `json:"description,omitempty"`
	SectionOfAct string    `json:"sectionOfAct,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IssuedFine is a fine issued to a driver by an officer.
type IssuedFine struct {
	ID              string     `json:"_id"`
	LicenseNumber   string     `json:"licenseNumber"`
	VehicleNumber   string     `json:"vehicleNumber"`
	OffenseName     string     `json:"offenseName"`
	Amount          float64    `json:"amount"`
	Place           string     `json:"place"`
	PoliceOfficerID string     `json:"policeOfficerId"`
	Status          FineStatus `json:"status"`
	PaymentID       string     `json:"paymentId,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	Date            time.Time  `json:"date"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// DashboardStats is the aggregate counters block on the dashboard.
type DashboardStats struct {
	TotalFines        int     `json:"totalFines"`
	FinesThisMonth    int     `json:"finesThisMonth"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PendingPayments   int     `json:"pendingPayments"`
	CompletedPayments int     `json:"completedPayments"`
	TotalDrivers      int     `json:"totalDrivers"`
	ActiveDrivers     int     `json:"activeDrivers"`
	SuspendedDrivers  int     `json:"suspendedDrivers"`
	TotalOfficers     int     `json:"totalOfficers"`
	TotalOffenseTypes int     `json:"totalOffenseTypes"`
}

// RecentActivity lists the latest fines and payments for the dashboard.
type RecentActivity struct {
	RecentFines    []IssuedFine `json:"recentFines"`
	RecentPayments []IssuedFine `json:"recentPayments"`
}
