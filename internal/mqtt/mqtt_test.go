package mqtt_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/mqtt"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

var at = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func TestFormatStatusPayload(t *testing.T) {
	snap := state.NewPanel(nil, input.DefaultDirection(), at).Snapshot()
	payload, err := mqtt.FormatStatusPayload(snap, at)
	require.NoError(t, err)

	var decoded mqtt.StatusPayload
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "2026-05-04T09:30:00Z", decoded.Timestamp)
	assert.Equal(t, "locked", decoded.Panel.Interface)
	require.Len(t, decoded.Panel.Parameters, 5)
	assert.Equal(t, "tidal_volume", decoded.Panel.Parameters[0].Name)
}

func TestFormatAlarmPayload(t *testing.T) {
	tests := []struct {
		kind   state.EventKind
		active bool
	}{
		{state.EventAlarmRaised, true},
		{state.EventAlarmCleared, false},
	}
	for _, tc := range tests {
		payload, err := mqtt.FormatAlarmPayload(state.Event{Kind: tc.kind, Parameter: "high_pressure", At: at})
		require.NoError(t, err)

		var decoded mqtt.AlarmPayload
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.Equal(t, "high_pressure", decoded.Alarm)
		assert.Equal(t, tc.active, decoded.Active)
		assert.Equal(t, "2026-05-04T09:30:00Z", decoded.Timestamp)
	}
}

func TestMirrorPublishesInOrder(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	m := mqtt.NewMirror(pub, 4)

	snap := state.NewPanel(nil, input.DefaultDirection(), at).Snapshot()
	assert.True(t, m.Status(snap, at))
	assert.True(t, m.Alarm(state.Event{Kind: state.EventAlarmRaised, Parameter: "low_pressure", At: at}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx)

	statuses, alarms := pub.Counts()
	assert.Equal(t, 1, statuses)
	assert.Equal(t, 1, alarms)
	assert.Equal(t, "low_pressure", pub.Alarms[0].Parameter)
}

func TestMirrorDropsWhenFull(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	m := mqtt.NewMirror(pub, 1)

	e := state.Event{Kind: state.EventAlarmRaised, Parameter: "muted", At: at}
	assert.True(t, m.Alarm(e))
	assert.False(t, m.Alarm(e))
}

func TestMirrorSurvivesPublishErrors(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	pub.PublishError = errors.New("broker gone")
	m := mqtt.NewMirror(pub, 2)

	m.Alarm(state.Event{Kind: state.EventAlarmCleared, Parameter: "electronics", At: at})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx)

	_, alarms := pub.Counts()
	assert.Equal(t, 0, alarms)
}
