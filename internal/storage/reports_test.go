// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/efine-tui/internal/model"
)

func openTestArchive(t *testing.T) *ReportArchive {
	t.Helper()
	archive, err := OpenArchive(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

func sampleMonthly() model.MonthlyReport {
	return model.MonthlyReport{
		Month: 3, Year: 2025, Period: "March 2025",
		Summary: model.FineSummary{TotalFines: 42, TotalAmount: 126000, PaidFines: 30},
		OffenseBreakdown: map[string]model.OffenseBreakdown{
			"Speeding": {Count: 20, Amount: 60000},
		},
	}
}

func TestArchive_SaveAndGet(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	rec, err := archive.SaveReport(ctx, model.ReportMonthlyFines, "2025-03", sampleMonthly())
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("report should get an id")
	}

	got, err := archive.GetReport(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.Type != model.ReportMonthlyFines || got.Period != "2025-03" {
		t.Errorf("report = %+v", got)
	}

	var decoded model.MonthlyReport
	if err := json.Unmarshal(got.Payload, &decoded); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if decoded.Summary.TotalFines != 42 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestArchive_GetMissing(t *testing.T) {
	archive := openTestArchive(t)
	if _, err := archive.GetReport(context.Background(), "nope"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}

func TestArchive_RejectsUnknownType(t *testing.T) {
	archive := openTestArchive(t)
	if _, err := archive.SaveReport(context.Background(), "weekly-csv", "x", nil); err == nil {
		t.Error("expected error for unknown report type")
	}
}

func TestArchive_ListNewestFirst(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	for _, period := range []string{"2025-01", "2025-02", "2025-03"} {
		if _, err := archive.SaveReport(ctx, model.ReportMonthlyFines, period, sampleMonthly()); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond) // distinct generated_at ordering
	}

	reports, err := archive.ListReports(ctx)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("len = %d", len(reports))
	}
	if reports[0].Period != "2025-03" || reports[2].Period != "2025-01" {
		t.Errorf("order = %s, %s, %s", reports[0].Period, reports[1].Period, reports[2].Period)
	}
	// Listing omits payloads.
	if len(reports[0].Payload) != 0 {
		t.Error("list entries should not carry payloads")
	}
}

func TestArchive_Prune(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := archive.SaveReport(ctx, model.ReportPayments, "p", sampleMonthly()); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deleted, err := archive.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	reports, _ := archive.ListReports(ctx)
	if len(reports) != 2 {
		t.Errorf("remaining = %d, want 2", len(reports))
	}
}

func TestArchive_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.db")
	ctx := context.Background()

	first, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	rec, err := first.SaveReport(ctx, model.ReportPayments, "2025-01-01 to 2025-01-31", model.PaymentReport{})
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	first.Close()

	second, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	if _, err := second.GetReport(ctx, rec.ID); err != nil {
		t.Errorf("GetReport after reopen failed: %v", err)
	}
}

func TestExportFile(t *testing.T) {
	archive := openTestArchive(t)
	ctx := context.Background()

	rec, err := archive.SaveReport(ctx, model.ReportMonthlyFines, "2025-03", sampleMonthly())
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, rec.ExportName())
	if rec.ExportName() != "monthly-fines-report-2025-03.json" {
		t.Errorf("name = %q", rec.ExportName())
	}
	if err := rec.ExportFile(path); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var decoded model.MonthlyReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported file is not valid JSON: %v", err)
	}
	if decoded.Period != "March 2025" {
		t.Errorf("decoded = %+v", decoded)
	}
}
