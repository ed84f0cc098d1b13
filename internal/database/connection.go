package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open establishes a connection to the local SQLite store and prepares
// the schema. The handle is passed explicitly to the repositories; there
// is no package-level connection.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	// Create vocabulary_lists table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vocabulary_lists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			vocabulary_count INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			is_builtin BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary_lists table: %v", err)
	}

	// Create vocabularies table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS vocabularies (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			source_text TEXT NOT NULL,
			target_text TEXT NOT NULL,
			box INTEGER NOT NULL DEFAULT 0,
			next_review TIMESTAMP,
			times_correct INTEGER NOT NULL DEFAULT 0,
			times_incorrect INTEGER NOT NULL DEFAULT 0,
			last_reviewed TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (list_id) REFERENCES vocabulary_lists(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocabularies table: %v", err)
	}

	// Selection queries filter by list and by box
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_vocabularies_list ON vocabularies(list_id)`)
	if err != nil {
		return fmt.Errorf("failed to create list index: %v", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_vocabularies_box ON vocabularies(box)`)
	if err != nil {
		return fmt.Errorf("failed to create box index: %v", err)
	}

	// Create learning_stats table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS learning_stats (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE,
			new_learned INTEGER NOT NULL DEFAULT 0,
			reviewed INTEGER NOT NULL DEFAULT 0,
			total_time INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learning_stats table: %v", err)
	}

	// Create list_preferences table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS list_preferences (
			list_id TEXT PRIMARY KEY,
			is_active BOOLEAN NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create list_preferences table: %v", err)
	}

	return nil
}
