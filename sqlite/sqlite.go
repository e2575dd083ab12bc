// Package sqlite provides SQLite-based storage for profiles, their full-text
// index and their embeddings.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// This also keeps a ":memory:" database alive across queries.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Embeddings cascade with their profile.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the tables, the FTS5 index and its sync triggers if
// they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			linkedin TEXT NOT NULL DEFAULT '',
			twitter TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL,
			profile_url TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			fingerprint TEXT NOT NULL DEFAULT '',
			merge_count INTEGER NOT NULL DEFAULT 0,
			merged INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_profiles_position ON profiles(position);
		CREATE INDEX IF NOT EXISTS idx_profiles_department ON profiles(department);

		CREATE VIRTUAL TABLE IF NOT EXISTS profiles_fts USING fts5(
			name, role, bio,
			content='profiles', content_rowid='rowid'
		);

		CREATE TRIGGER IF NOT EXISTS profiles_ai AFTER INSERT ON profiles BEGIN
			INSERT INTO profiles_fts(rowid, name, role, bio) VALUES (new.rowid, new.name, new.role, new.bio);
		END;

		CREATE TRIGGER IF NOT EXISTS profiles_ad AFTER DELETE ON profiles BEGIN
			INSERT INTO profiles_fts(profiles_fts, rowid, name, role, bio) VALUES ('delete', old.rowid, old.name, old.role, old.bio);
		END;

		CREATE TRIGGER IF NOT EXISTS profiles_au AFTER UPDATE ON profiles BEGIN
			INSERT INTO profiles_fts(profiles_fts, rowid, name, role, bio) VALUES ('delete', old.rowid, old.name, old.role, old.bio);
			INSERT INTO profiles_fts(rowid, name, role, bio) VALUES (new.rowid, new.name, new.role, new.bio);
		END;

		CREATE TABLE IF NOT EXISTS embeddings (
			profile_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
			model TEXT NOT NULL,
			vector BLOB NOT NULL,
			text TEXT NOT NULL DEFAULT ''
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
