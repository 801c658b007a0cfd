package state

import (
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/fsm"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/params"
)

const LockTimeout = 5000 * time.Millisecond

// Panel owns every piece of machine and parameter state. One cycle function
// mutates it; everything else reads snapshots.
type Panel struct {
	Params      *params.Set
	Interface   *fsm.Machine[model.InterfaceState]
	Operating   *fsm.Machine[model.OperatingState]
	Ventilation *fsm.Machine[model.VentilationState]
	Preset      *fsm.Machine[model.PresetLevel]

	Buttons   input.Buttons
	Encoder   input.Encoder
	Direction input.Direction

	// counts already turned into detents since the last encoder reset
	encoderUsed int

	LockTimeout  time.Duration
	LastActivity time.Time

	events []Event
}

// NewPanel builds the power-on state: locked, paused, volume control, no
// preset selected, parameters at their volume-control initial values.
func NewPanel(enc input.Encoder, dir input.Direction, now time.Time) *Panel {
	return &Panel{
		Params:       params.NewSet(model.VolumeFamily),
		Interface:    fsm.New(model.Locked),
		Operating:    fsm.New(model.Pause),
		Ventilation:  fsm.New(model.VolumeControl),
		Preset:       fsm.New(model.PresetNone),
		Encoder:      enc,
		Direction:    dir,
		LockTimeout:  LockTimeout,
		LastActivity: now,
	}
}

// Family is the range/preset column of the current ventilation state.
func (p *Panel) Family() model.Family {
	return p.Ventilation.Current().Family()
}

// Tick moves every machine's entry edge into the new cycle.
func (p *Panel) Tick() {
	p.Preset.Tick()
	p.Interface.Tick()
	p.Operating.Tick()
	p.Ventilation.Tick()
}

func (p *Panel) Touch(now time.Time) {
	p.LastActivity = now
}

// Idle reports whether the lock deadline has passed.
func (p *Panel) Idle(now time.Time) bool {
	return now.Sub(p.LastActivity) > p.LockTimeout
}

// ClearButtons drops click and hold latches so they cannot carry through a
// transition. Mute is latched separately for the bus and survives.
func (p *Panel) ClearButtons() {
	p.Buttons.ClearExcept(model.MuteButton)
}

// ReadEncoder returns whole detents turned since the last read, scaled for
// the given sign. A partial detent stays pending for the next cycle.
func (p *Panel) ReadEncoder(sign int) int {
	if p.Encoder == nil {
		return 0
	}
	whole := p.Direction.Detents(p.Encoder.Read()-p.encoderUsed, 1)
	if whole == 0 {
		return 0
	}
	p.encoderUsed += whole * p.Direction.Steps()
	return sign * whole
}

// ResetEncoder discards every pending count.
func (p *Panel) ResetEncoder() {
	p.encoderUsed = 0
	if p.Encoder != nil {
		p.Encoder.Reset()
	}
}

// Record queues an event for the current cycle.
func (p *Panel) Record(e Event) {
	p.events = append(p.events, e)
}

// DrainEvents hands back the cycle's events and empties the queue.
func (p *Panel) DrainEvents() []Event {
	out := p.events
	p.events = nil
	return out
}
