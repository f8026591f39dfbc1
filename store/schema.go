// Package store persists experiment results in a SQLite database so that
// parameter sweeps can be listed and compared after the fact.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    seed INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    wraparound INTEGER NOT NULL,
    classes INTEGER NOT NULL,
    population INTEGER NOT NULL,
    min_neighbors INTEGER NOT NULL,
    trials INTEGER NOT NULL,

    -- Eviction parameters, NULL for plain runs
    eviction_rate REAL,
    eviction_probability REAL,
    eviction_class INTEGER
);

CREATE TABLE IF NOT EXISTS trials (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    trial INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    moves INTEGER NOT NULL,
    shocks INTEGER NOT NULL,
    evicted INTEGER NOT NULL,
    converged INTEGER NOT NULL,
    homophily REAL,  -- NULL when undefined
    PRIMARY KEY (run_id, trial)
);

CREATE TABLE IF NOT EXISTS class_results (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    trial INTEGER NOT NULL,
    class INTEGER NOT NULL,
    agents INTEGER NOT NULL,
    like_count INTEGER NOT NULL,
    unlike_count INTEGER NOT NULL,
    homophily REAL,
    PRIMARY KEY (run_id, trial, class)
);
CREATE INDEX IF NOT EXISTS idx_class_results_class ON class_results(run_id, class);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema creates the schema if it does not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	if exists == 0 {
		return createSchema(ctx, db)
	}

	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}
	return nil
}

func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}
