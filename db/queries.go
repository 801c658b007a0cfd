package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/state"
)

// Entry is one journal row.
type Entry struct {
	ID       int64
	Session  string
	Event    state.Event
	Snapshot []byte
}

type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Events    int
}

// RecentEvents returns the newest limit events, oldest first.
func RecentEvents(db *sql.DB, limit int) ([]Entry, error) {
	rows, err := db.Query(`SELECT id, session_id, at, kind, machine, from_state, to_state, parameter, value, snapshot
		FROM (SELECT * FROM events ORDER BY id DESC LIMIT ?) ORDER BY id`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at, kind string
		err = rows.Scan(&e.ID, &e.Session, &at, &kind, &e.Event.Machine, &e.Event.From, &e.Event.To, &e.Event.Parameter, &e.Event.Value, &e.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Event.Kind = state.EventKind(kind)
		e.Event.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event time %q: %w", at, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetSessions lists boots, newest first, with their event counts.
func GetSessions(db *sql.DB) ([]Session, error) {
	rows, err := db.Query(`SELECT s.id, s.started_at, s.ended_at, COUNT(e.id)
		FROM sessions s LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var started string
		var ended sql.NullString
		if err := rows.Scan(&s.ID, &started, &ended, &s.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if ended.Valid {
			t, _ := time.Parse(time.RFC3339Nano, ended.String)
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
