package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: matching scans every open lost report and every unreturned
	// found report, so index the eligibility columns.
	`CREATE INDEX IF NOT EXISTS idx_lost_items_status ON lost_items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_found_items_is_returned ON found_items(is_returned)`,

	// Migration 2: per-user report listings.
	`CREATE INDEX IF NOT EXISTS idx_lost_items_user ON lost_items(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_found_items_user ON found_items(user_id)`,
}

// Migrate ensures the schema and then applies every migration.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
