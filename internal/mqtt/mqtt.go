// Package mqtt mirrors panel status and alarm edges to a broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const (
	StatusTopic = "status"
	AlarmTopic  = "alarms"
)

// Publisher publishes panel messages to MQTT.
type Publisher interface {
	// PublishStatus sends the current panel snapshot. Retained, QoS 0.
	PublishStatus(snap state.Snapshot, at time.Time) error

	// PublishAlarm sends one alarm edge. QoS 1.
	PublishAlarm(e state.Event) error

	Close() error
}

// StatusPayload is the retained status message.
type StatusPayload struct {
	Timestamp string         `json:"timestamp"`
	Panel     state.Snapshot `json:"panel"`
}

func FormatStatusPayload(snap state.Snapshot, at time.Time) ([]byte, error) {
	return json.Marshal(StatusPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Panel:     snap,
	})
}

// AlarmPayload is one alarm edge.
type AlarmPayload struct {
	Timestamp string `json:"timestamp"`
	Alarm     string `json:"alarm"`
	Active    bool   `json:"active"`
}

func FormatAlarmPayload(e state.Event) ([]byte, error) {
	return json.Marshal(AlarmPayload{
		Timestamp: e.At.UTC().Format(time.RFC3339),
		Alarm:     e.Parameter,
		Active:    e.Kind == state.EventAlarmRaised,
	})
}
