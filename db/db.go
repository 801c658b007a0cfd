package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	ended_at   TEXT
);

CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	at         TEXT NOT NULL,
	kind       TEXT NOT NULL,
	machine    TEXT NOT NULL DEFAULT '',
	from_state TEXT NOT NULL DEFAULT '',
	to_state   TEXT NOT NULL DEFAULT '',
	parameter  TEXT NOT NULL DEFAULT '',
	value      INTEGER NOT NULL DEFAULT 0,
	snapshot   BLOB
);

CREATE INDEX IF NOT EXISTS events_session ON events(session_id, id);
`

// Open opens the journal and applies the schema. A single connection keeps
// ":memory:" databases intact across statements.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// NewSession records a boot and returns its id.
func NewSession(db *sql.DB, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO sessions (id, started_at) VALUES (?, ?)`, id, startedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}
	log.Info().Str("session", id).Msg("Journal session started")
	return id, nil
}

func EndSession(db *sql.DB, id string, endedAt time.Time) error {
	_, err := db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, endedAt.UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to end session %s: %w", id, err)
	}
	return nil
}
