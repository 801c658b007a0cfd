package input

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/model"
)

const (
	DefaultDebounce  = 50 * time.Millisecond
	DefaultLongPress = 800 * time.Millisecond
)

// Classifier debounces one button's pressed level and emits at most one event
// per sample. Feed it once per cycle.
type Classifier struct {
	Debounce  time.Duration
	LongPress time.Duration

	raw       bool
	rawSince  time.Time
	pressed   bool
	pressedAt time.Time
	long      bool
}

func NewClassifier() *Classifier {
	return &Classifier{Debounce: DefaultDebounce, LongPress: DefaultLongPress}
}

// Sample takes the current pressed level and returns the event it completes.
func (c *Classifier) Sample(pressed bool, now time.Time) (Event, bool) {
	if pressed != c.raw || c.rawSince.IsZero() {
		c.raw = pressed
		c.rawSince = now
	}

	if c.raw != c.pressed && now.Sub(c.rawSince) >= c.Debounce {
		c.pressed = c.raw
		if c.pressed {
			c.pressedAt = now
			return 0, false
		}
		if c.long {
			c.long = false
			return LongPressStopped, true
		}
		return Clicked, true
	}

	if c.pressed && !c.long && now.Sub(c.pressedAt) >= c.LongPress {
		c.long = true
		return LongPressStarted, true
	}
	return 0, false
}

// Pressed reports the debounced level.
func (c *Classifier) Pressed() bool {
	return c.pressed
}

// ButtonBank runs one classifier per physical button and latches what they
// emit into the panel's slots.
type ButtonBank struct {
	classifiers [model.NumButtons]*Classifier
}

func NewButtonBank() *ButtonBank {
	b := &ButtonBank{}
	for i := range b.classifiers {
		b.classifiers[i] = NewClassifier()
	}
	return b
}

// Sample feeds one reading of every button and applies the resulting events.
func (b *ButtonBank) Sample(pressed [model.NumButtons]bool, now time.Time, into *Buttons) {
	for i, c := range b.classifiers {
		e, ok := c.Sample(pressed[i], now)
		if !ok {
			continue
		}
		button := model.Button(i)
		into.Apply(button, e)
		log.Debug().Str("button", button.String()).Str("event", e.String()).Msg("Button event")
	}
}
