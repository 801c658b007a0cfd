package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/thatsimonsguy/vent-panel/internal/state"
)

var snapshotEncoding cbor.EncMode

func init() {
	var err error
	snapshotEncoding, err = cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
}

// EncodeSnapshot is the blob stored next to each event.
func EncodeSnapshot(snap state.Snapshot) ([]byte, error) {
	b, err := snapshotEncoding.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return b, nil
}

func DecodeSnapshot(b []byte) (state.Snapshot, error) {
	var snap state.Snapshot
	if err := cbor.Unmarshal(b, &snap); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

func InsertEventWithTx(tx *sql.Tx, session string, e state.Event, blob []byte) error {
	_, err := tx.Exec(`INSERT INTO events (session_id, at, kind, machine, from_state, to_state, parameter, value, snapshot) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session, e.At.UTC().Format(time.RFC3339Nano), string(e.Kind), e.Machine, e.From, e.To, e.Parameter, e.Value, blob)
	if err != nil {
		return fmt.Errorf("failed to insert %s event: %w", e.Kind, err)
	}
	return nil
}

// RecordEvents journals one cycle's events in a single transaction, each with
// the snapshot taken after the cycle.
func RecordEvents(db *sql.DB, session string, events []state.Event, snap state.Snapshot) error {
	if len(events) == 0 {
		return nil
	}
	blob, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	for _, e := range events {
		if err := InsertEventWithTx(tx, session, e, blob); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
