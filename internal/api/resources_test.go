// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jeranaias/efine-tui/internal/model"
)

// =============================================================================
// LISTING ENDPOINTS
// =============================================================================

func TestListDrivers_QueryParams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" || q.Get("search") != "perera" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(Page[model.Driver]{
			Data:  []model.Driver{{ID: "d1", Name: "S. Perera"}},
			Total: 11,
		})
	}))

	page, err := client.ListDrivers(context.Background(), ListOptions{Page: 2, Limit: 10, Search: "perera"})
	if err != nil {
		t.Fatalf("ListDrivers failed: %v", err)
	}
	if page.Total != 11 || len(page.Data) != 1 {
		t.Errorf("page = %+v", page)
	}
	if page.TotalPages(10) != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages(10))
	}
}

func TestSuspendActivateDriver_Paths(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(model.Driver{ID: "d1", LicenseStatus: model.LicenseSuspended})
	}))

	if _, err := client.SuspendDriver(context.Background(), "d1"); err != nil {
		t.Fatalf("SuspendDriver failed: %v", err)
	}
	if _, err := client.ActivateDriver(context.Background(), "d1"); err != nil {
		t.Fatalf("ActivateDriver failed: %v", err)
	}

	want := []string{
		"PUT /api/admin/drivers/d1/suspend",
		"PUT /api/admin/drivers/d1/activate",
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("call %d = %q, want %q", i, paths[i], p)
		}
	}
}

func TestListFines_StatusFilter(t *testing.T) {
	var gotStatus string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		json.NewEncoder(w).Encode(Page[model.IssuedFine]{})
	}))

	filter := FineFilter{Status: model.FineUnpaid}
	filter.Page = 1
	if _, err := client.ListFines(context.Background(), filter); err != nil {
		t.Fatalf("ListFines failed: %v", err)
	}
	if gotStatus != "Unpaid" {
		t.Errorf("status = %q", gotStatus)
	}
}

// =============================================================================
// LEGACY OFFENSE LISTING
// =============================================================================

func offenseFixtures() []model.Offense {
	return []model.Offense{
		{ID: "o1", OffenseName: "Speeding", Amount: 3000, SectionOfAct: "Sec 140"},
		{ID: "o2", OffenseName: "Signal violation", Amount: 2000, SectionOfAct: "Sec 151"},
		{ID: "o3", OffenseName: "Drunk driving", Amount: 25000, SectionOfAct: "Sec 151A"},
		{ID: "o4", OffenseName: "No parking", Amount: 1000, SectionOfAct: "Sec 160"},
	}
}

func TestListOffenses_BareArrayFallback(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Legacy endpoint: bare array, ignores paging params.
		json.NewEncoder(w).Encode(offenseFixtures())
	}))

	page, err := client.ListOffenses(context.Background(), ListOptions{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListOffenses failed: %v", err)
	}
	if page.Total != 4 {
		t.Errorf("total = %d, want 4", page.Total)
	}
	if len(page.Data) != 2 || page.Data[0].OffenseName != "Speeding" {
		t.Errorf("page 1 = %+v", page.Data)
	}

	page2, err := client.ListOffenses(context.Background(), ListOptions{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListOffenses page 2 failed: %v", err)
	}
	if len(page2.Data) != 2 || page2.Data[0].OffenseName != "Drunk driving" {
		t.Errorf("page 2 = %+v", page2.Data)
	}
}

func TestListOffenses_ClientSideSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(offenseFixtures())
	}))

	page, err := client.ListOffenses(context.Background(), ListOptions{Search: "driving"})
	if err != nil {
		t.Fatalf("ListOffenses failed: %v", err)
	}
	if page.Total != 1 || page.Data[0].ID != "o3" {
		t.Errorf("search result = %+v", page)
	}

	// Search matches the act section too.
	page, err = client.ListOffenses(context.Background(), ListOptions{Search: "sec 151"})
	if err != nil {
		t.Fatalf("ListOffenses failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("section search total = %d, want 2", page.Total)
	}
}

func TestListOffenses_PagedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Page[model.Offense]{
			Data:  offenseFixtures()[:2],
			Total: 40,
		})
	}))

	page, err := client.ListOffenses(context.Background(), ListOptions{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListOffenses failed: %v", err)
	}
	// Envelope responses are server-paged; totals pass through untouched.
	if page.Total != 40 || len(page.Data) != 2 {
		t.Errorf("page = %+v", page)
	}
}

func TestListOffenses_PageBeyondEnd(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(offenseFixtures())
	}))

	page, err := client.ListOffenses(context.Background(), ListOptions{Page: 9, Limit: 10})
	if err != nil {
		t.Fatalf("ListOffenses failed: %v", err)
	}
	if len(page.Data) != 0 || page.Total != 4 {
		t.Errorf("page = %+v", page)
	}
}

// =============================================================================
// DASHBOARD AND REPORTS
// =============================================================================

func TestGetDashboard(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Dashboard{
			Stats: model.DashboardStats{TotalFines: 120, TotalRevenue: 450000},
			RecentActivity: model.RecentActivity{
				RecentFines: []model.IssuedFine{{ID: "f1", Status: model.FineUnpaid}},
			},
		})
	}))

	dash, err := client.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if dash.Stats.TotalFines != 120 {
		t.Errorf("totalFines = %d", dash.Stats.TotalFines)
	}
	if len(dash.RecentActivity.RecentFines) != 1 {
		t.Errorf("recentFines = %+v", dash.RecentActivity.RecentFines)
	}
}

func TestMonthlyFinesReport(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("month") != "3" || q.Get("year") != "2025" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"report": model.MonthlyReport{
				Month: 3, Year: 2025, Period: "March 2025",
				Summary: model.FineSummary{TotalFines: 42, TotalAmount: 126000},
			},
		})
	}))

	report, err := client.MonthlyFinesReport(context.Background(), 3, 2025)
	if err != nil {
		t.Fatalf("MonthlyFinesReport failed: %v", err)
	}
	if report.Summary.TotalFines != 42 {
		t.Errorf("report = %+v", report)
	}
}

func TestMonthlyFinesReport_RejectsBadMonth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	if _, err := client.MonthlyFinesReport(context.Background(), 13, 2025); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestPaymentsReport_DateRange(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("startDate") != "2025-01-01" || q.Get("endDate") != "2025-01-31" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"report": model.PaymentReport{
				Period:  "2025-01-01 to 2025-01-31",
				Summary: model.PaymentSummary{TotalPayments: 7, TotalRevenue: 21000},
			},
		})
	}))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	report, err := client.PaymentsReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("PaymentsReport failed: %v", err)
	}
	if report.Summary.TotalPayments != 7 {
		t.Errorf("report = %+v", report)
	}

	if _, err := client.PaymentsReport(context.Background(), end, start); err == nil {
		t.Error("expected error for inverted range")
	}
}
