// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// REPORT TYPES
// =============================================================================

// ReportType identifies one of the downloadable report kinds.
type ReportType string

const (
	ReportMonthlyFines     ReportType = "monthly-fines"
	ReportPayments         ReportType = "payments"
	ReportDriverViolations ReportType = "driver-violations"
)

// ReportTypes lists all report kinds in display order.
var ReportTypes = []ReportType{ReportMonthlyFines, ReportPayments, ReportDriverViolations}

// Label returns the display name for a report type.
func (r ReportType) Label() string {
	switch r {
	case ReportMonthlyFines:
		return "Monthly Fine Report"
	case ReportPayments:
		return "Payment Summary Report"
	case ReportDriverViolations:
		return "Driver Violation Report"
	default:
		return string(r)
	}
}

// Valid reports whether the report type is known.
func (r ReportType) Valid() bool {
	switch r {
	case ReportMonthlyFines, ReportPayments, ReportDriverViolations:
		return true
	}
	return false
}

// MonthNames maps month numbers 1-12 to display names.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// =============================================================================
// REPORT PAYLOADS
// =============================================================================

// FineSummary is the aggregate block of a monthly fines report.
type FineSummary struct {
	TotalFines   int     `json:"totalFines"`
	PaidFines    int     `json:"paidFines"`
	UnpaidFines  int     `json:"unpaidFines"`
	TotalAmount  float64 `json:"totalAmount"`
	PaidAmount   float64 `json:"paidAmount"`
	UnpaidAmount float64 `json:"unpaidAmount"`
}

// OffenseBreakdown aggregates fines per offense type.
type OffenseBreakdown struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// MonthlyReport is the payload of the monthly fines report.
type MonthlyReport struct {
	Month            int                         `json:"month"`
	Year             int                         `json:"year"`
	Period           string                      `json:"period"`
	Summary          FineSummary                 `json:"summary"`
	OffenseBreakdown map[string]OffenseBreakdown `json:"offenseBreakdown"`
	Fines            []IssuedFine                `json:"fines"`
}

// PaymentSummary is the aggregate block of a payment report.
type PaymentSummary struct {
	TotalPayments int     `json:"totalPayments"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// PaymentReport is the payload of the payment summary report.
type PaymentReport struct {
	Period   string         `json:"period"`
	Summary  PaymentSummary `json:"summary"`
	Payments []IssuedFine   `json:"payments"`
}

// DriverViolationReport is the payload of the driver violation report.
type DriverViolationReport struct {
	LicenseNumber string       `json:"licenseNumber"`
	Driver        *Driver      `json:"driver,omitempty"`
	TotalFines    int          `json:"totalFines"`
	DemeritPoints int          `json:"demeritPoints"`
	Fines         []IssuedFine `json:"fines"`
}
