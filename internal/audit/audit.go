// Package audit keeps a SQLite log of call lifecycle events and turns.
// It is an audit artifact only: the in-memory stores stay authoritative and
// nothing is ever read back into live conversation state.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xcerlabs/talkagent/internal/logging"
)

// Log records call events. Write failures are logged and swallowed; the
// audit trail must never fail a turn.
type Log struct {
	db *sql.DB
}

// Open opens or creates the audit database under statePath
func Open(statePath string) (*Log, error) {
	dbPath := filepath.Join(statePath, "calls.db")

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logging.Info("audit", "Call log open at %s", dbPath)
	return l, nil
}

func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calls (
		call_id    TEXT PRIMARY KEY,
		from_num   TEXT,
		outbound   INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		ended_at   TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS turns (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		call_id    TEXT NOT NULL,
		user_text  TEXT NOT NULL,
		agent_text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (call_id) REFERENCES calls(call_id)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_call ON turns(call_id);
	`
	_, err := l.db.Exec(schema)
	return err
}

// CallStarted records a new call
func (l *Log) CallStarted(callID, from string, outbound bool) {
	_, err := l.db.Exec(
		`INSERT OR IGNORE INTO calls (call_id, from_num, outbound, started_at) VALUES (?, ?, ?, ?)`,
		callID, from, boolToInt(outbound), time.Now().UTC(),
	)
	if err != nil {
		logging.Warn("audit", "Failed to record call start %s: %v", callID, err)
	}
}

// TurnRecorded records one (user, agent) pair for a call
func (l *Log) TurnRecorded(callID, user, agent string) {
	_, err := l.db.Exec(
		`INSERT INTO turns (call_id, user_text, agent_text, created_at) VALUES (?, ?, ?, ?)`,
		callID, user, agent, time.Now().UTC(),
	)
	if err != nil {
		logging.Warn("audit", "Failed to record turn for %s: %v", callID, err)
	}
}

// CallEnded marks the call as finished
func (l *Log) CallEnded(callID string) {
	_, err := l.db.Exec(
		`UPDATE calls SET ended_at = ? WHERE call_id = ?`,
		time.Now().UTC(), callID,
	)
	if err != nil {
		logging.Warn("audit", "Failed to record call end %s: %v", callID, err)
	}
}

// TurnCount returns the number of recorded turns for a call
func (l *Log) TurnCount(callID string) (int, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM turns WHERE call_id = ?`, callID).Scan(&n)
	return n, err
}

// Close closes the underlying database
func (l *Log) Close() error {
	return l.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
