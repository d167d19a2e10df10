// Package sqlite implements the repository and Unit-of-Work contracts on
// an embedded SQLite database.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// no CGo and no external database server. The blank import below
// registers it with database/sql under the driver name "sqlite".
//
// The storage schema is fully normalized:
//
//	users                users(id, login UNIQUE, password_hash)
//	elements             global catalog (id, name, calories)
//	tier_lists           one row per tier list, FK to users
//	tier_list_categories ordered per tier list via the number column
//	tier_list_elements   ordered per category via the number column,
//	                     keyed (tier_list_category_id, number)
//
// The number columns are the sole ordering mechanism — reads always sort
// by number ascending, never by rowid or insertion order.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB connection pool. It owns the schema (created in
// migrate) and hands out Unit-of-Work scopes via NewUnitOfWork; all data
// access goes through those scopes.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema
// exists. Use ":memory:" for tests.
//
// sql.Open only creates the pool manager — the Ping forces an immediate
// connection so a bad path surfaces here rather than on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A single connection for everything. PRAGMAs are per-connection in
	// SQLite, an in-memory database exists per connection, and SQLite
	// allows only one writer anyway — a larger pool would just trade
	// correctness for SQLITE_BUSY errors.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write transaction is open.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys off; the schema relies on them
	// (tier_lists → users, categories → tier_lists, links → elements).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Call it on shutdown so the WAL is
// checkpointed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the five tables. CREATE TABLE IF NOT EXISTS keeps this
// safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			login         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS elements (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			calories INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tier_lists (
			id      TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			name    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tier_lists_user_id
			ON tier_lists(user_id);

		CREATE TABLE IF NOT EXISTS tier_list_categories (
			id           TEXT PRIMARY KEY,
			tier_list_id TEXT NOT NULL REFERENCES tier_lists(id),
			number       INTEGER NOT NULL,
			name         TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tier_list_categories_tier_list_id
			ON tier_list_categories(tier_list_id);

		CREATE TABLE IF NOT EXISTS tier_list_elements (
			tier_list_category_id TEXT NOT NULL REFERENCES tier_list_categories(id),
			number                INTEGER NOT NULL,
			element_id            TEXT NOT NULL REFERENCES elements(id),
			PRIMARY KEY (tier_list_category_id, number)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
