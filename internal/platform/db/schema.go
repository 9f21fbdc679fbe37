package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Schema holds the travel-time and geocode cache tables. Statements are
// idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS travel_time_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);`,
	`CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_travel_time_cache_updated_at
		ON travel_time_cache (updated_at);`,
}

// InitSchema creates the cache tables in one transaction.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range Schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}

// PruneCaches deletes travel-time entries last refreshed before the given
// number of days ago and reports how many rows were removed.
func PruneCaches(ctx context.Context, db *sql.DB, olderThanDays int) (int64, error) {
	if db == nil {
		return 0, errors.New("prune caches: db is nil")
	}
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("prune caches: days must be positive (got %d)", olderThanDays)
	}

	res, err := db.ExecContext(ctx,
		`DELETE FROM travel_time_cache WHERE updated_at < now() - make_interval(days => $1);`,
		olderThanDays,
	)
	if err != nil {
		return 0, fmt.Errorf("prune caches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune caches: rows affected: %w", err)
	}
	return n, nil
}
