// Package store persists simulation experiments in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);

-- One row per kineuron run invocation
CREATE TABLE IF NOT EXISTS experiments (
    id TEXT PRIMARY KEY,          -- UUIDv7
    model TEXT NOT NULL,
    vesicles INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    repeat INTEGER NOT NULL,
    time_end REAL NOT NULL,
    time_save REAL NOT NULL,
    parameters TEXT,              -- YAML parameter file as loaded
    created_at TEXT NOT NULL
);

-- Rest point used by an experiment, one row per state
CREATE TABLE IF NOT EXISTS resting_states (
    experiment_id TEXT NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
    state TEXT NOT NULL,
    vesicles INTEGER NOT NULL,
    PRIMARY KEY (experiment_id, state)
);

-- Long-format snapshots: one value per (run, time, column)
CREATE TABLE IF NOT EXISTS snapshots (
    experiment_id TEXT NOT NULL REFERENCES experiments(id) ON DELETE CASCADE,
    run INTEGER NOT NULL,
    time REAL NOT NULL,
    kind TEXT NOT NULL,           -- 'state' or 'transition'
    name TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (experiment_id, run, time, kind, name)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_column ON snapshots(experiment_id, name);
`

// InitSchema creates the schema on a fresh database.
func InitSchema(ctx context.Context, db *sql.DB) error {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err == nil && version >= SchemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}
