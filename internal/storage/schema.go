// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema is the report archive schema. CREATE IF NOT EXISTS keeps it
// idempotent across opens; schema_version exists for future migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
    id           TEXT PRIMARY KEY,
    report_type  TEXT NOT NULL,
    period       TEXT NOT NULL,
    generated_at TIMESTAMP NOT NULL,
    payload      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_generated_at
    ON reports (generated_at DESC);

CREATE INDEX IF NOT EXISTS idx_reports_type
    ON reports (report_type);
`

// SchemaVersion is the current archive schema version.
const SchemaVersion = 1
