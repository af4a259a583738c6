// Package store is the persistence collaborator: sqlite-backed repositories
// for review state, the attempt log and the wrong book. The quiz engine never
// touches it directly; it works through the interfaces in internal/quiz.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS srs_states (
	hexagram_id INTEGER PRIMARY KEY,
	bucket INTEGER NOT NULL,
	due_at INTEGER NOT NULL,
	last_reviewed_at INTEGER NOT NULL DEFAULT 0,
	consecutive_correct INTEGER NOT NULL DEFAULT 0,
	total_reviews INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hexagram_id INTEGER NOT NULL,
	ts INTEGER NOT NULL,
	correct INTEGER NOT NULL,
	chosen_slot INTEGER NOT NULL,
	correct_slot INTEGER NOT NULL,
	option_ids TEXT NOT NULL,
	mode TEXT NOT NULL DEFAULT 'practice'
);
CREATE INDEX IF NOT EXISTS idx_attempts_ts ON attempts(ts);
CREATE INDEX IF NOT EXISTS idx_attempts_hexagram ON attempts(hexagram_id);

CREATE TABLE IF NOT EXISTS wrong_book (
	hexagram_id INTEGER PRIMARY KEY,
	wrong_count INTEGER NOT NULL DEFAULT 1,
	first_wrong_at INTEGER NOT NULL,
	last_wrong_at INTEGER NOT NULL,
	last_review_at INTEGER NOT NULL DEFAULT 0
);
`

// DB wraps the sqlite connection shared by the repositories.
type DB struct {
	conn *sqlx.DB
}

// Open connects to the sqlite database under dataDir, creating the directory
// and schema as needed. Pass ":memory:" as dataDir for an in-memory database.
func Open(dataDir string) (*DB, error) {
	dsn := ":memory:"
	if dataDir != ":memory:" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "hexquiz.db")
	}

	conn, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// Single writer; sqlite serializes writes anyway.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ResetAll deletes every learning record: review states, attempts and the
// wrong book. The catalog is embedded and unaffected.
func (db *DB) ResetAll() error {
	for _, table := range []string{"srs_states", "attempts", "wrong_book"} {
		if _, err := db.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
