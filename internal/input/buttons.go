// Package input turns raw button levels and encoder counts into the sticky
// per-button flags the state machines read each cycle.
package input

import "github.com/thatsimonsguy/vent-panel/internal/model"

type Event int

const (
	Clicked Event = iota
	LongPressStarted
	LongPressStopped
)

func (e Event) String() string {
	switch e {
	case Clicked:
		return "clicked"
	case LongPressStarted:
		return "long_press_started"
	case LongPressStopped:
		return "long_press_stopped"
	}
	return "unknown"
}

// Slot is the latched state of one logical button. Clicked stays set until
// cleared; Held follows the long press and is also cleared on transitions.
type Slot struct {
	Clicked bool
	Held    bool
}

// Buttons holds one typed slot per logical button.
type Buttons [model.NumButtons]Slot

func (b *Buttons) Apply(button model.Button, e Event) {
	switch e {
	case Clicked:
		b[button].Clicked = true
	case LongPressStarted:
		b[button].Held = true
	case LongPressStopped:
		b[button].Held = false
	}
}

func (b *Buttons) Clicked(button model.Button) bool {
	return b[button].Clicked
}

func (b *Buttons) Held(button model.Button) bool {
	return b[button].Held
}

// Active is true for a click or a long press.
func (b *Buttons) Active(button model.Button) bool {
	return b[button].Clicked || b[button].Held
}

func (b *Buttons) Clear(button model.Button) {
	b[button] = Slot{}
}

// ClearExcept drops every latch apart from the listed buttons.
func (b *Buttons) ClearExcept(keep ...model.Button) {
	for i := range b {
		if contains(keep, model.Button(i)) {
			continue
		}
		b[i] = Slot{}
	}
}

func contains(list []model.Button, v model.Button) bool {
	for _, b := range list {
		if b == v {
			return true
		}
	}
	return false
}
