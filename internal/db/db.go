// Package db persists the chat log to SQLite. Sessions themselves stay
// in memory; the log is an append-only record for offline analysis.
package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ziadkadry99/shopbot/internal/session"
)

// DB wraps a sql.DB with shopbot-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS chat_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('user','assistant')),
    content TEXT NOT NULL,
    intent TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_log_session ON chat_log(session_id);
CREATE INDEX IF NOT EXISTS idx_chat_log_created ON chat_log(created_at);
`

// SaveTurn appends one conversation turn to the chat log. It satisfies
// session.Persister; failures are logged rather than surfaced so a
// broken disk never blocks a conversation.
func (d *DB) SaveTurn(sessionID string, turn session.Turn) {
	_, err := d.Exec(
		`INSERT INTO chat_log (session_id, role, content, intent, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, string(turn.Role), turn.Content, turn.Intent, turn.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("chat log write failed for session %s: %v", sessionID, err)
	}
}

// Turns returns a session's logged turns, oldest first.
func (d *DB) Turns(sessionID string) ([]session.Turn, error) {
	rows, err := d.Query(
		`SELECT role, content, intent, created_at FROM chat_log WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying chat log: %w", err)
	}
	defer rows.Close()

	var turns []session.Turn
	for rows.Next() {
		var role, content, intent, createdAt string
		if err := rows.Scan(&role, &content, &intent, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat log row: %w", err)
		}
		ts, _ := time.Parse(time.RFC3339Nano, createdAt)
		turns = append(turns, session.Turn{
			Role:      session.Role(role),
			Content:   content,
			Intent:    intent,
			Timestamp: ts,
		})
	}
	return turns, rows.Err()
}

// PruneBefore deletes log entries older than the cutoff and reports how
// many were removed.
func (d *DB) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := d.Exec(`DELETE FROM chat_log WHERE created_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("pruning chat log: %w", err)
	}
	return res.RowsAffected()
}
