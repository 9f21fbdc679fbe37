package cache

import (
	"context"
	"database/sql"
	"fmt"
)

// upsertAll runs one prepared statement per row inside a single transaction.
// exec is called once per row and must bind that row's arguments.
func upsertAll(ctx context.Context, db *sql.DB, table, query string, exec func(stmt *sql.Stmt) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert %s: begin: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("upsert %s: prepare: %w", table, err)
	}
	defer stmt.Close()

	if err := exec(stmt); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert %s: commit: %w", table, err)
	}
	return nil
}
