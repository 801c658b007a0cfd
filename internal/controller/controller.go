package controller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/controllers/interfacecontroller"
	"github.com/thatsimonsguy/vent-panel/internal/controllers/operatingcontroller"
	"github.com/thatsimonsguy/vent-panel/internal/controllers/presetcontroller"
	"github.com/thatsimonsguy/vent-panel/internal/controllers/ventilationcontroller"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/presentation"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

// Cycle runs the four machines in their fixed order. Each machine commits its
// own transition before the next one reads the panel.
func Cycle(p *state.Panel, now time.Time) {
	p.Tick()
	presetcontroller.Evaluate(p, now)
	interfacecontroller.Evaluate(p, now)
	operatingcontroller.Evaluate(p, now)
	ventilationcontroller.Evaluate(p, now)
}

// StatusOf is the bus view of the panel. Mute is carried by the link latch.
func StatusOf(p *state.Panel) protocol.Status {
	return protocol.Status{
		Operating:   p.Operating.Current(),
		Ventilation: p.Ventilation.Current(),
		Values:      p.Params.SetValues(),
	}
}

// Result is everything one Step produced for the output stage and the
// observers.
type Result struct {
	At        time.Time
	Elapsed   time.Duration
	Outputs   presentation.Frame
	Status    protocol.Frame
	Telemetry protocol.Telemetry
	Events    []state.Event
	Snapshot  state.Snapshot
}

// Engine binds the panel to the bus link.
type Engine struct {
	Panel *state.Panel
	Link  *protocol.Link
	start time.Time
}

func NewEngine(p *state.Panel, link *protocol.Link, start time.Time) *Engine {
	return &Engine{Panel: p, Link: link, start: start}
}

// Step runs one control cycle: machines, mute latch, presentation and the
// outgoing frame.
func (e *Engine) Step(now time.Time) Result {
	p := e.Panel
	Cycle(p, now)

	if p.Buttons.Active(model.MuteButton) {
		e.Link.LatchMute()
		p.Buttons.Clear(model.MuteButton)
		log.Info().Msg("Alarm mute requested")
	}

	tel := e.Link.Telemetry()
	status := protocol.EncodeStatus(StatusOf(p))
	e.Link.Publish(status)

	res := Result{
		At:        now,
		Elapsed:   now.Sub(e.start),
		Outputs:   presentation.Render(presentation.ViewOf(p, tel)),
		Status:    status,
		Telemetry: tel,
		Events:    p.DrainEvents(),
		Snapshot:  p.Snapshot(),
	}

	if len(res.Events) > 0 {
		log.Debug().Int("events", len(res.Events)).Str("frame", status.Hex()).Msg("Cycle complete")
	}
	return res
}
