package mqtt

import (
	"sync"
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/state"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	Statuses       []state.Snapshot
	StatusPayloads [][]byte
	Alarms         []state.Event
	AlarmPayloads  [][]byte

	// PublishError, if set, is returned by every publish.
	PublishError error

	Closed bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishStatus(snap state.Snapshot, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatStatusPayload(snap, at)
	if err != nil {
		return err
	}
	f.Statuses = append(f.Statuses, snap)
	f.StatusPayloads = append(f.StatusPayloads, payload)
	return nil
}

func (f *FakePublisher) PublishAlarm(e state.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatAlarmPayload(e)
	if err != nil {
		return err
	}
	f.Alarms = append(f.Alarms, e)
	f.AlarmPayloads = append(f.AlarmPayloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Counts returns the number of status and alarm messages recorded.
func (f *FakePublisher) Counts() (statuses, alarms int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Statuses), len(f.Alarms)
}
