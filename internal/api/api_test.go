package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/db"
	"github.com/thatsimonsguy/vent-panel/internal/controller"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
	"github.com/thatsimonsguy/vent-panel/internal/telemetry"
	"github.com/thatsimonsguy/vent-panel/internal/transport"
)

var start = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *sql.DB {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func stepResult(t *testing.T) controller.Result {
	p := state.NewPanel(nil, input.DefaultDirection(), start)
	link := protocol.NewLink()

	var tel protocol.Telemetry
	tel.Values[0] = 410
	tel.Values[1] = 215
	tel.Values[2] = 52
	tel.SetAlarm(model.LowPressureAlarm, true)
	raw := tel.Encode()
	link.Receive(raw[:])

	return controller.NewEngine(p, link, start).Step(start.Add(10 * time.Millisecond))
}

func TestStatusBeforeFirstUpdate(t *testing.T) {
	server := NewServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Panel not started", resp.Error)
}

func TestGetStatus(t *testing.T) {
	server := NewServer(nil)
	server.Update(stepResult(t), telemetry.Health{Frames: 3}, transport.Stats{Requests: 7})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var resp Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "locked", resp.Panel.Interface)
	assert.Equal(t, "volume_control", resp.Panel.Ventilation)
	assert.Equal(t, protocol.Frame{1, 0, 0, 30, 12, 12, 5, 0}.Hex(), resp.Frame)
	assert.Equal(t, AchievedResponse{Volume: 410, PIP: 215, PEEP: 52}, resp.Achieved)
	assert.Equal(t, []string{"low_pressure"}, resp.Alarms)
	assert.Equal(t, 3, resp.Link.Frames)
	assert.Equal(t, int64(7), resp.Transport.Requests)
}

func TestGetFrame(t *testing.T) {
	server := NewServer(nil)
	res := stepResult(t)
	server.Update(res, telemetry.Health{}, transport.Stats{})

	req := httptest.NewRequest(http.MethodGet, "/api/frame", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp FrameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, res.Status.Hex(), resp.Frame)
	assert.Len(t, resp.Telemetry, 2*protocol.TelemetrySize)
}

func TestMethodNotAllowed(t *testing.T) {
	server := NewServer(nil)
	for _, path := range []string{"/api/status", "/api/frame", "/api/events"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := NewServer(nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestGetEvents(t *testing.T) {
	database := setupTestDB(t)
	session, err := db.NewSession(database, start)
	require.NoError(t, err)

	p := state.NewPanel(nil, input.DefaultDirection(), start)
	events := []state.Event{
		state.Transition("interface", model.Locked, model.Selecting, start),
		state.Transition("interface", model.Selecting, model.Setting, start.Add(time.Second)),
		state.Transition("interface", model.Setting, model.Selecting, start.Add(2*time.Second)),
	}
	require.NoError(t, db.RecordEvents(database, session, events, p.Snapshot()))

	server := NewServer(database)

	tests := []struct {
		name     string
		query    string
		code     int
		expected []string
	}{
		{"default limit", "", http.StatusOK, []string{"selecting", "setting", "selecting"}},
		{"limit keeps newest", "?limit=2", http.StatusOK, []string{"setting", "selecting"}},
		{"bad limit", "?limit=zero", http.StatusBadRequest, nil},
		{"negative limit", "?limit=-1", http.StatusBadRequest, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/events"+tc.query, nil)
			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, req)

			require.Equal(t, tc.code, w.Code)
			if tc.expected == nil {
				return
			}
			var resp []EventResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			var got []string
			for _, e := range resp {
				assert.Equal(t, session, e.Session)
				got = append(got, e.Event.To)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEventsWithoutJournal(t *testing.T) {
	server := NewServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUpdateBroadcastsOnlyChanges(t *testing.T) {
	server := NewServer(nil)
	res := stepResult(t)
	res.Events = nil
	pushes := func() int {
		server.mutex.RLock()
		defer server.mutex.RUnlock()
		return server.broadcasts
	}

	server.Update(res, telemetry.Health{}, transport.Stats{})
	assert.Equal(t, 1, pushes(), "first update")

	for i := 0; i < 10; i++ {
		res.At = res.At.Add(10 * time.Millisecond)
		server.Update(res, telemetry.Health{}, transport.Stats{Requests: int64(i)})
	}
	assert.Equal(t, 1, pushes(), "nothing changed")

	res.Telemetry.Values[0] = 411
	server.Update(res, telemetry.Health{}, transport.Stats{})
	assert.Equal(t, 2, pushes(), "telemetry changed")

	server.Update(res, telemetry.Health{Stale: true}, transport.Stats{})
	assert.Equal(t, 3, pushes(), "link went stale")

	res.Status[0] = 1
	server.Update(res, telemetry.Health{Stale: true}, transport.Stats{})
	assert.Equal(t, 4, pushes(), "frame changed")

	res.Events = []state.Event{{Kind: state.EventPresetApplied}}
	server.Update(res, telemetry.Health{Stale: true}, transport.Stats{})
	assert.Equal(t, 5, pushes(), "cycle events")

	res.Events = nil
	server.Update(res, telemetry.Health{Stale: true}, transport.Stats{})
	assert.Equal(t, 5, pushes())
}

func TestWebsocketBroadcast(t *testing.T) {
	server := NewServer(nil)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()
	defer server.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return server.hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	server.Update(stepResult(t), telemetry.Health{}, transport.Stats{})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Status
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "pause", got.Panel.Operating)
	assert.Equal(t, []string{"low_pressure"}, got.Alarms)

	conn.Close()
	require.Eventually(t, func() bool { return server.hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
}
