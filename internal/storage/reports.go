// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/efine-tui/internal/model"
	"github.com/jeranaias/efine-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrReportNotFound = errors.New("report not found in archive")
)

// =============================================================================
// ARCHIVED REPORT
// =============================================================================

// ArchivedReport is one stored report. Payload is the raw JSON exactly
// as the backend returned it, so a re-export is byte-faithful.
type ArchivedReport struct {
	ID          string
	Type        model.ReportType
	Period      string
	GeneratedAt time.Time
	Payload     json.RawMessage
}

// =============================================================================
// REPORT ARCHIVE
// =============================================================================

// ReportArchive is the SQLite-backed archive of downloaded reports.
type ReportArchive struct {
	db *sql.DB
}

// DefaultArchivePath returns ~/.efine/reports.db.
func DefaultArchivePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".efine", "reports.db"), nil
}

// OpenArchive opens (creating if needed) the archive at path.
func OpenArchive(path string) (*ReportArchive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := ensureVersion(db); err != nil {
		db.Close()
		return nil, err
	}

	return &ReportArchive{db: db}, nil
}

func ensureVersion(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("failed to write schema version: %w", err)
		}
	}
	return nil
}

// Close closes the archive.
func (a *ReportArchive) Close() error {
	return a.db.Close()
}

// =============================================================================
// SAVE / LIST / GET
// =============================================================================

// SaveReport stores a freshly downloaded report and returns its record.
// payload is marshalled once here so the archive and any exported file
// always agree.
func (a *ReportArchive) SaveReport(ctx context.Context, typ model.ReportType, period string, payload any) (*ArchivedReport, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown report type %q", typ)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	rec := &ArchivedReport{
		ID:          uuid.NewString(),
		Type:        typ,
		Period:      period,
		GeneratedAt: time.Now().UTC(),
		Payload:     data,
	}

	_, err = a.db.ExecContext(ctx,
		"INSERT INTO reports (id, report_type, period, generated_at, payload) VALUES (?, ?, ?, ?, ?)",
		rec.ID, string(rec.Type), rec.Period, rec.GeneratedAt, string(rec.Payload))
	if err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}
	return rec, nil
}

// ListReports returns archive entries newest first, without payloads.
func (a *ReportArchive) ListReports(ctx context.Context) ([]ArchivedReport, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT id, report_type, period, generated_at FROM reports ORDER BY generated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ArchivedReport
	for rows.Next() {
		var r ArchivedReport
		var typ string
		if err := rows.Scan(&r.ID, &typ, &r.Period, &r.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		r.Type = model.ReportType(typ)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetReport returns one archived report including its payload.
func (a *ReportArchive) GetReport(ctx context.Context, id string) (*ArchivedReport, error) {
	var r ArchivedReport
	var typ, payload string
	err := a.db.QueryRowContext(ctx,
		"SELECT id, report_type, period, generated_at, payload FROM reports WHERE id = ?", id).
		Scan(&r.ID, &typ, &r.Period, &r.GeneratedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	r.Type = model.ReportType(typ)
	r.Payload = json.RawMessage(payload)
	return &r, nil
}

// Prune keeps the newest keep reports and deletes the rest. Returns the
// number deleted.
func (a *ReportArchive) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := a.db.ExecContext(ctx, `
		DELETE FROM reports WHERE id NOT IN (
			SELECT id FROM reports ORDER BY generated_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// =============================================================================
// FILE EXPORT
// =============================================================================

// ExportFile writes an archived report's payload to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (r *ArchivedReport) ExportFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, r.Payload, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// ExportName builds the conventional filename for a report, e.g.
// monthly-fines-report-2025-03.json.
func (r *ArchivedReport) ExportName() string {
	return string(r.Type) + "-report-" + r.Period + ".json"
}
