package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the stores schema. The statements are valid for both SQLite
// and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStoresQuery := `
	CREATE TABLE IF NOT EXISTS stores (
		store_id TEXT PRIMARY KEY,
		store_name TEXT NOT NULL,
		address1 TEXT NOT NULL,
		address2 TEXT,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		minimum_purchase DOUBLE PRECISION,
		charge_flat DOUBLE PRECISION,
		charge_percent DOUBLE PRECISION
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stores_lat_lng
	ON stores(lat, lng);
	`

	statements := []string{
		createStoresQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
