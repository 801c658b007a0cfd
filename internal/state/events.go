package state

import "time"

type EventKind string

const (
	EventTransition    EventKind = "transition"
	EventEditConfirmed EventKind = "edit_confirmed"
	EventEditAborted   EventKind = "edit_aborted"
	EventPresetApplied EventKind = "preset_applied"
	EventAlarmRaised   EventKind = "alarm_raised"
	EventAlarmCleared  EventKind = "alarm_cleared"
)

// Event is one journal-worthy change produced during a cycle.
type Event struct {
	Kind      EventKind `json:"kind"`
	Machine   string    `json:"machine,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Parameter string    `json:"parameter,omitempty"`
	Value     int       `json:"value"`
	At        time.Time `json:"at"`
}

func Transition(machine string, from, to interface{ String() string }, at time.Time) Event {
	return Event{Kind: EventTransition, Machine: machine, From: from.String(), To: to.String(), At: at}
}
