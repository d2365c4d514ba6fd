// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// report_cmd.go - report generation and archive browsing.
//
// Command: report
// Examples:
//   efine report generate monthly --month 3 --year 2025
//   efine report generate payments --from 2025-01-01 --to 2025-03-31
//   efine report generate driver --license B1234567
//   efine report list
//   efine report show a1b2c3
//   efine report export a1b2c3 --output /tmp/march.json
//   efine report prune --keep 10 --confirm

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/storage"
)

// HandleReport dispatches the report subcommands.
func HandleReport(args *Args) int {
	const command = "report"
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "generate", "gen":
		return reportGenerate(args, parser)
	case "", "list":
		return reportList(args)
	case "show":
		return reportShow(args, parser)
	case "export":
		return reportExport(args, parser)
	case "prune":
		return reportPrune(args, parser)
	default:
		return fail(command, args.JSON, usageErrorf("unknown report subcommand: "+parser.Subcommand()))
	}
}

// =============================================================================
// GENERATE
// =============================================================================

func reportGenerate(args *Args, parser *ArgParser) int {
	const command = "report generate"

	e, err := newEnv()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	archive, err := openArchive()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	defer archive.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var (
		typ     model.ReportType
		period  string
		payload any
	)
	switch parser.Positional(1) {
	case "monthly":
		now := time.Now()
		month := parser.FlagIntOrDefault("month", int(now.Month()))
		year := parser.FlagIntOrDefault("year", now.Year())
		period = fmt.Sprintf("%04d-%02d", year, month)
		typ = model.ReportMonthlyFines
		payload, err = e.client.MonthlyFinesReport(ctx, month, year)
	case "payments":
		from, perr := time.Parse("2006-01-02", parser.Flag("from"))
		if perr != nil {
			return fail(command, args.JSON, usageErrorf("--from must be YYYY-MM-DD"))
		}
		to, perr := time.Parse("2006-01-02", parser.Flag("to"))
		if perr != nil {
			return fail(command, args.JSON, usageErrorf("--to must be YYYY-MM-DD"))
		}
		period = parser.Flag("from") + "_" + parser.Flag("to")
		typ = model.ReportPayments
		payload, err = e.client.PaymentsReport(ctx, from, to)
	case "driver":
		license := parser.Flag("license")
		if license == "" {
			return fail(command, args.JSON, usageErrorf("--license is required"))
		}
		period = license
		typ = model.ReportDriverViolations
		payload, err = e.client.DriverViolationsReport(ctx, license)
	default:
		return fail(command, args.JSON, usageErrorf("usage: efine report generate monthly|payments|driver"))
	}
	if err != nil {
		return fail(command, args.JSON, err)
	}

	rec, err := archive.SaveReport(ctx, typ, period, payload)
	if err != nil {
		return fail(command, args.JSON, err)
	}
	if keep := e.cfg.Reports.Keep; keep > 0 {
		_, _ = archive.Prune(ctx, keep)
	}

	dir, err := e.cfg.ReportDir()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail(command, args.JSON, err)
	}
	path := filepath.Join(dir, rec.ExportName())
	if err := rec.ExportFile(path); err != nil {
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, map[string]string{
			"id": rec.ID, "type": string(rec.Type), "period": rec.Period, "path": path,
		}).Print()
		return 0
	}
	fmt.Printf("Saved %s\n", path)
	return 0
}

// =============================================================================
// LIST / SHOW / EXPORT
// =============================================================================

func reportList(args *Args) int {
	const command = "report list"

	archive, err := openArchive()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	defer archive.Close()

	reports, err := archive.ListReports(context.Background())
	if err != nil {
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, reports).Print()
		return 0
	}

	if len(reports) == 0 {
		fmt.Println("No reports archived yet. Run `efine report generate`.")
		return 0
	}
	fmt.Printf("%-10s %-26s %-22s %s\n", "ID", "TYPE", "PERIOD", "GENERATED")
	for _, rec := range reports {
		id := rec.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("%-10s %-26s %-22s %s\n",
			id, rec.Type.Label(), rec.Period, rec.GeneratedAt.Local().Format("2006-01-02 15:04"))
	}
	return 0
}

// findReport resolves a possibly-shortened report ID.
func findReport(ctx context.Context, archive *storage.ReportArchive, id string) (*storage.ArchivedReport, error) {
	if rec, err := archive.GetReport(ctx, id); err == nil {
		return rec, nil
	}
	reports, err := archive.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range reports {
		if strings.HasPrefix(rec.ID, id) {
			return archive.GetReport(ctx, rec.ID)
		}
	}
	return nil, storage.ErrReportNotFound
}

func reportShow(args *Args, parser *ArgParser) int {
	const command = "report show"
	id := parser.Positional(1)
	if id == "" {
		return fail(command, args.JSON, usageErrorf("usage: efine report show <id>"))
	}

	archive, err := openArchive()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	defer archive.Close()

	rec, err := findReport(context.Background(), archive, id)
	if err != nil {
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, rec).Print()
		return 0
	}

	out, err := renderReport(rec)
	if err != nil {
		// Fall back to the raw payload rather than failing the command.
		fmt.Println(string(rec.Payload))
		return 0
	}
	fmt.Print(out)
	return 0
}

func reportExport(args *Args, parser *ArgParser) int {
	const command = "report export"
	id := parser.Positional(1)
	if id == "" {
		return fail(command, args.JSON, usageErrorf("usage: efine report export <id>"))
	}

	e, err := newEnv()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	archive, err := openArchive()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	defer archive.Close()

	rec, err := findReport(context.Background(), archive, id)
	if err != nil {
		return fail(command, args.JSON, err)
	}

	path := parser.Flag("output")
	if path == "" {
		dir, err := e.cfg.ReportDir()
		if err != nil {
			return fail(command, args.JSON, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fail(command, args.JSON, err)
		}
		path = filepath.Join(dir, rec.ExportName())
	}
	if err := rec.ExportFile(path); err != nil {
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, map[string]string{"id": rec.ID, "path": path}).Print()
		return 0
	}
	fmt.Printf("Saved %s\n", path)
	return 0
}

func reportPrune(args *Args, parser *ArgParser) int {
	const command = "report prune"

	e, err := newEnv()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	archive, err := openArchive()
	if err != nil {
		return fail(command, args.JSON, err)
	}
	defer archive.Close()

	keep := parser.FlagIntOrDefault("keep", e.cfg.Reports.Keep)
	if keep < 1 {
		return fail(command, args.JSON, usageErrorf("--keep must be at least 1"))
	}

	ok, err := RequireConfirmation(parser.BoolFlag("confirm"), "prune archived reports", args.JSON)
	if err != nil {
		return fail(command, args.JSON, err)
	}
	if !ok {
		infof(args.JSON, "Cancelled.\n")
		return 0
	}

	deleted, err := archive.Prune(context.Background(), keep)
	if err != nil {
		return fail(command, args.JSON, err)
	}

	if args.JSON {
		NewJSONResponse(command, map[string]int{"deleted": deleted, "kept": keep}).Print()
		return 0
	}
	if deleted == 0 {
		fmt.Printf("Nothing to prune (%d or fewer reports archived).\n", keep)
		return 0
	}
	fmt.Printf("Deleted %d archived report(s), keeping the newest %d.\n", deleted, keep)
	return 0
}

// =============================================================================
// RENDERING
// =============================================================================

// renderReport formats an archived report as markdown and renders it
// for the terminal.
func renderReport(rec *storage.ArchivedReport) (string, error) {
	md, err := reportMarkdown(rec)
	if err != nil {
		return "", err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

// reportMarkdown builds a markdown summary of the payload. Fine rows
// are capped; the full data lives in the exported JSON.
func reportMarkdown(rec *storage.ArchivedReport) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Type.Label())
	fmt.Fprintf(&b, "Period: **%s** · Generated: %s\n\n", rec.Period, rec.GeneratedAt.Local().Format("2006-01-02 15:04"))

	switch rec.Type {
	case model.ReportMonthlyFines:
		var r model.MonthlyReport
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Total fines | %d |\n", r.Summary.TotalFines)
		fmt.Fprintf(&b, "| Paid | %d (Rs. %.2f) |\n", r.Summary.PaidFines, r.Summary.PaidAmount)
		fmt.Fprintf(&b, "| Unpaid | %d (Rs. %.2f) |\n", r.Summary.UnpaidFines, r.Summary.UnpaidAmount)
		fmt.Fprintf(&b, "| Total amount | Rs. %.2f |\n\n", r.Summary.TotalAmount)
		if len(r.OffenseBreakdown) > 0 {
			fmt.Fprintf(&b, "## By offense\n\n| Offense | Count | Amount |\n|---|---|---|\n")
			for name, agg := range r.OffenseBreakdown {
				fmt.Fprintf(&b, "| %s | %d | Rs. %.2f |\n", name, agg.Count, agg.Amount)
			}
		}
	case model.ReportPayments:
		var r model.PaymentReport
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Payments | %d |\n", r.Summary.TotalPayments)
		fmt.Fprintf(&b, "| Revenue | Rs. %.2f |\n", r.Summary.TotalRevenue)
	case model.ReportDriverViolations:
		var r model.DriverViolationReport
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "License: **%s**\n\n", r.LicenseNumber)
		if r.Driver != nil {
			fmt.Fprintf(&b, "Driver: %s · Status: %s\n\n", r.Driver.Name, r.Driver.LicenseStatus)
		}
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Total fines | %d |\n", r.TotalFines)
		fmt.Fprintf(&b, "| Demerit points | %d |\n", r.DemeritPoints)
		if len(r.Fines) > 0 {
			fmt.Fprintf(&b, "\n## Fines\n\n| Date | Offense | Amount | Status |\n|---|---|---|---|\n")
			for i, f := range r.Fines {
				if i >= 20 {
					fmt.Fprintf(&b, "| … | %d more | | |\n", len(r.Fines)-20)
					break
				}
				fmt.Fprintf(&b, "| %s | %s | Rs. %.2f | %s |\n",
					f.Date.Format("2006-01-02"), f.OffenseName, f.Amount, f.Status)
			}
		}
	default:
		b.Write(rec.Payload)
	}
	return b.String(), nil
}
