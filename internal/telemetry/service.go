package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/notifications"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const (
	DefaultStaleAfter = 2 * time.Second

	// notifyQueueSize bounds alarm notifications waiting for the sender.
	notifyQueueSize = 16
)

type Reading struct {
	Telemetry protocol.Telemetry
	Timestamp time.Time
	Bytes     int
	Valid     bool
}

// Health summarises the link from the panel's side.
type Health struct {
	Frames      int       `json:"frames"`
	ShortFrames int       `json:"short_frames"`
	LastFrame   time.Time `json:"last_frame"`
	Stale       bool      `json:"stale"`
}

// Notifier interface for sending notifications
type Notifier interface {
	Send(title, message string) error
}

// Service watches received telemetry for alarm edges. Process runs on the
// transport goroutine; everything else is read from the cycle.
type Service struct {
	mutex sync.RWMutex

	last     Reading
	lastGood Reading
	alarms   [model.NumAlarms]bool

	frames      int
	shortFrames int
	staleAfter  time.Duration
	staleLogged bool

	pending []state.Event
	notices chan notice

	// Dependencies (for testing)
	notifier Notifier
	now      func() time.Time
}

func NewService() *Service {
	return &Service{
		staleAfter: DefaultStaleAfter,
		notices:    make(chan notice, notifyQueueSize),
		notifier:   &realNotifier{},
		now:        time.Now,
	}
}

// TestDeps holds test dependencies
type TestDeps struct {
	Notifier Notifier
	Now      func() time.Time
}

// NewServiceForTest creates a service with injectable dependencies for testing
func NewServiceForTest(deps *TestDeps) *Service {
	return &Service{
		staleAfter: DefaultStaleAfter,
		notices:    make(chan notice, notifyQueueSize),
		notifier:   deps.Notifier,
		now:        deps.Now,
	}
}

type realNotifier struct{}

func (r *realNotifier) Send(title, message string) error {
	return notifications.Send(title, message)
}

type notice struct {
	alarm     model.Alarm
	telemetry protocol.Telemetry
}

// Process is registered as the link's receive hook. It runs on the transport
// goroutine, so notifications are only queued here; Run sends them.
func (s *Service) Process(t protocol.Telemetry, n int) {
	now := s.now()
	reading := Reading{Telemetry: t, Timestamp: now, Bytes: n, Valid: n == protocol.TelemetrySize}

	s.mutex.Lock()
	s.frames++
	s.last = reading
	s.staleLogged = false
	if !reading.Valid {
		s.shortFrames++
		log.Warn().Int("bytes", n).Int("short_frames", s.shortFrames).Msg("Short telemetry frame")
	} else {
		s.lastGood = reading
	}

	var raised []model.Alarm
	for i, active := range t.Alarms() {
		a := model.Alarm(i)
		if active == s.alarms[i] {
			continue
		}
		s.alarms[i] = active
		kind := state.EventAlarmCleared
		if active {
			kind = state.EventAlarmRaised
			if a != model.AlarmMuted {
				raised = append(raised, a)
			}
		}
		log.Info().Str("alarm", a.String()).Bool("active", active).Msg("Alarm edge")
		s.pending = append(s.pending, state.Event{Kind: kind, Parameter: a.String(), At: now})
	}
	s.mutex.Unlock()

	for _, a := range raised {
		s.enqueue(notice{alarm: a, telemetry: t})
	}
}

func (s *Service) enqueue(n notice) {
	select {
	case s.notices <- n:
	default:
		log.Warn().Str("alarm", n.alarm.String()).Msg("Notification queue full, alarm notification dropped")
	}
}

// Run sends queued alarm notifications until ctx is done, then drains what
// is left.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case n := <-s.notices:
			s.notify(n.alarm, n.telemetry)
		case <-ctx.Done():
			for {
				select {
				case n := <-s.notices:
					s.notify(n.alarm, n.telemetry)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) notify(a model.Alarm, t protocol.Telemetry) {
	if s.notifier == nil {
		return
	}
	title := fmt.Sprintf("Ventilator alarm: %s", a)
	msg := fmt.Sprintf("volume %d ml, peak %d.%d cmH2O, PEEP %d.%d cmH2O",
		t.AchievedVolume(), t.PeakPressure()/10, abs(t.PeakPressure()%10), t.PEEP()/10, abs(t.PEEP()%10))
	if err := s.notifier.Send(title, msg); err != nil {
		log.Warn().Err(err).Str("alarm", a.String()).Msg("Failed to send alarm notification")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrainEvents hands back alarm edges seen since the last call.
func (s *Service) DrainEvents() []state.Event {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Active is the alarm set from the last frame.
func (s *Service) Active() [model.NumAlarms]bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.alarms
}

func (s *Service) Last() Reading {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.last
}

// LastGood is the last full-length frame.
func (s *Service) LastGood() Reading {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastGood
}

// Health reports frame counters and whether the control unit has gone quiet.
// The first check that finds the link stale logs it.
func (s *Service) Health() Health {
	now := s.now()
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stale := s.last.Timestamp.IsZero() || now.Sub(s.last.Timestamp) > s.staleAfter
	if stale && !s.staleLogged && !s.last.Timestamp.IsZero() {
		log.Warn().Time("last_frame", s.last.Timestamp).Msg("Control unit telemetry stale")
		s.staleLogged = true
	}
	return Health{
		Frames:      s.frames,
		ShortFrames: s.shortFrames,
		LastFrame:   s.last.Timestamp,
		Stale:       stale,
	}
}
