// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jeranaias/efine-tui/internal/model"
)

// =============================================================================
// REPORTS
// =============================================================================

// Report generation is a POST: the server computes the report on demand
// from the parameters in the JSON body and returns it under "report".

// MonthlyFinesReport generates the fines report for one calendar month.
func (c *Client) MonthlyFinesReport(ctx context.Context, month, year int) (*model.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, &ClientError{Type: ErrTypeRequest, Message: fmt.Sprintf("month must be 1-12, got %d", month)}
	}
	req := struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}{Month: month, Year: year}

	var resp struct {
		Report model.MonthlyReport `json:"report"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/reports/monthly-fines", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Report, nil
}

// PaymentsReport generates the payment summary for a date range. Dates
// are sent as YYYY-MM-DD.
func (c *Client) PaymentsReport(ctx context.Context, start, end time.Time) (*model.PaymentReport, error) {
	if end.Before(start) {
		return nil, &ClientError{Type: ErrTypeRequest, Message: "end date is before start date"}
	}
	req := struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{StartDate: start.Format("2006-01-02"), EndDate: end.Format("2006-01-02")}

	var resp struct {
		Report model.PaymentReport `json:"report"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/reports/payments", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Report, nil
}

// DriverViolationsReport generates the violation history for one license.
func (c *Client) DriverViolationsReport(ctx context.Context, licenseNumber string) (*model.DriverViolationReport, error) {
	if licenseNumber == "" {
		return nil, &ClientError{Type: ErrTypeRequest, Message: "license number is required"}
	}
	req := struct {
		LicenseNumber string `json:"licenseNumber"`
	}{LicenseNumber: licenseNumber}

	var resp struct {
		Report model.DriverViolationReport `json:"report"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/reports/driver-violations", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Report, nil
}
