package database

import (
	"context"
	"database/sql"
)

// runMigrations creates the schema if it does not exist
func runMigrations(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			draft_key TEXT PRIMARY KEY,
			state     TEXT NOT NULL,
			saved_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sync_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			draft_key  TEXT NOT NULL,
			action     TEXT NOT NULL,
			succeeded  INTEGER NOT NULL,
			error_code TEXT NOT NULL DEFAULT '',
			message    TEXT NOT NULL DEFAULT '',
			remapped   INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_log_draft
			ON sync_log(draft_key, id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
