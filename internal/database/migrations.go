package database

import (
	"database/sql"
	"fmt"
)

// Migration represents a schema migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in order; versions already recorded in the
// migrations table are skipped.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_ndvi_analyses",
		SQL: `
			CREATE TABLE IF NOT EXISTS ndvi_analyses (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				min_lon     REAL NOT NULL,
				min_lat     REAL NOT NULL,
				max_lon     REAL NOT NULL,
				max_lat     REAL NOT NULL,
				geometry    TEXT NOT NULL,
				stat_min    REAL NOT NULL,
				stat_max    REAL NOT NULL,
				stat_mean   REAL NOT NULL,
				grid_json   TEXT NOT NULL,
				red_url     TEXT NOT NULL,
				nir_url     TEXT NOT NULL,
				created_at  INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_ndvi_analyses_created ON ndvi_analyses (created_at);
		`,
	},
}

// Migrate applies pending migrations inside transactions
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		err := Transaction(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}
