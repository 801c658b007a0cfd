package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/db"
	"github.com/thatsimonsguy/vent-panel/internal/controller"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
	"github.com/thatsimonsguy/vent-panel/internal/telemetry"
	"github.com/thatsimonsguy/vent-panel/internal/transport"
)

const defaultEventLimit = 50

// Status is the panel as last reported by the control loop.
type Status struct {
	UpdatedAt time.Time        `json:"updated_at"`
	Panel     state.Snapshot   `json:"panel"`
	Frame     string           `json:"frame"`
	Achieved  AchievedResponse `json:"achieved"`
	Alarms    []string         `json:"alarms"`
	Link      telemetry.Health `json:"link"`
	Transport transport.Stats  `json:"transport"`
}

type AchievedResponse struct {
	Volume int `json:"volume"`
	PIP    int `json:"pip"`
	PEEP   int `json:"peep"`
}

type FrameResponse struct {
	Frame     string `json:"frame"`
	Telemetry string `json:"telemetry"`
}

type EventResponse struct {
	ID      int64       `json:"id"`
	Session string      `json:"session"`
	Event   state.Event `json:"event"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	db  *sql.DB
	hub *Hub

	mutex     sync.RWMutex
	status    Status
	telemetry string
	ready     bool

	// what the last websocket push carried
	lastRaw    [protocol.TelemetrySize]byte
	lastFrame  protocol.Frame
	lastStale  bool
	broadcasts int
}

func NewServer(database *sql.DB) *Server {
	return &Server{
		db:  database,
		hub: NewHub(),
	}
}

// Update records one cycle's result. Websocket clients are sent it only when
// the cycle produced events or the frame, telemetry or link staleness changed.
func (s *Server) Update(res controller.Result, health telemetry.Health, stats transport.Stats) {
	status := Status{
		UpdatedAt: res.At,
		Panel:     res.Snapshot,
		Frame:     res.Status.Hex(),
		Achieved: AchievedResponse{
			Volume: res.Telemetry.AchievedVolume(),
			PIP:    res.Telemetry.PeakPressure(),
			PEEP:   res.Telemetry.PEEP(),
		},
		Alarms:    activeAlarms(res),
		Link:      health,
		Transport: stats,
	}
	raw := res.Telemetry.Encode()

	s.mutex.Lock()
	push := !s.ready || len(res.Events) > 0 ||
		raw != s.lastRaw || res.Status != s.lastFrame || health.Stale != s.lastStale
	s.status = status
	s.telemetry = fmt.Sprintf("%x", raw[:])
	s.ready = true
	if push {
		s.lastRaw, s.lastFrame, s.lastStale = raw, res.Status, health.Stale
		s.broadcasts++
	}
	s.mutex.Unlock()

	if push {
		s.hub.Broadcast(status)
	}
}

func activeAlarms(res controller.Result) []string {
	alarms := []string{}
	for i, on := range res.Telemetry.Alarms() {
		if on {
			alarms = append(alarms, model.Alarm(i).String())
		}
	}
	return alarms
}

// Handler returns the API routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/ws", s.hub.ServeWS)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Info().Str("address", addr).Msg("Starting REST API server")

	return http.ListenAndServe(addr, s.Handler())
}

// Close disconnects websocket clients.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.mutex.RLock()
	status, ready := s.status, s.ready
	s.mutex.RUnlock()

	if !ready {
		s.writeError(w, http.StatusServiceUnavailable, "Panel not started")
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.mutex.RLock()
	resp := FrameResponse{Frame: s.status.Frame, Telemetry: s.telemetry}
	ready := s.ready
	s.mutex.RUnlock()

	if !ready {
		s.writeError(w, http.StatusServiceUnavailable, "Panel not started")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Journal disabled")
		return
	}

	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := db.RecentEvents(s.db, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read journal")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := make([]EventResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, EventResponse{ID: e.ID, Session: e.Session, Event: e.Event})
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
