package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/display"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/presentation"
)

// Outputs is every display and LED on the panel. Unwired LEDs may be nil.
type Outputs struct {
	Displays      display.Driver
	ParameterLEDs [model.NumParameters]*LED
	ModeLEDs      [model.NumModeLEDs]*LED
	AlarmLEDs     [model.NumAlarms]*LED
}

// LEDs lists every wired LED, parameters first, then modes, then alarms.
func (o *Outputs) LEDs() []*LED {
	var out []*LED
	for _, bank := range [][]*LED{o.ParameterLEDs[:], o.ModeLEDs[:], o.AlarmLEDs[:]} {
		for _, l := range bank {
			if l != nil {
				out = append(out, l)
			}
		}
	}
	return out
}

// Apply writes a rendered frame. Every output is attempted; the errors are
// joined.
func (o *Outputs) Apply(f presentation.Frame, elapsed time.Duration) error {
	var errs []error

	if o.Displays != nil {
		for i, cmd := range f.Displays {
			if err := o.Displays.Raw(i, cmd.Encoded()); err != nil {
				errs = append(errs, err)
			}
		}
	}

	apply := func(leds []*LED, cmds []presentation.LEDCommand) {
		for i, l := range leds {
			if l == nil {
				continue
			}
			if err := l.Apply(cmds[i], elapsed); err != nil {
				errs = append(errs, err)
			}
		}
	}
	apply(o.ParameterLEDs[:], f.ParameterLEDs[:])
	apply(o.ModeLEDs[:], f.ModeLEDs[:])
	apply(o.AlarmLEDs[:], f.AlarmLEDs[:])

	return errors.Join(errs...)
}

// SetAlarmLEDs drives the whole alarm bank at once.
func (o *Outputs) SetAlarmLEDs(lit bool) error {
	var errs []error
	for _, l := range o.AlarmLEDs {
		if l == nil {
			continue
		}
		if err := l.Set(lit); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AllOff blanks every display and LED.
func (o *Outputs) AllOff() error {
	var errs []error
	if o.Displays != nil {
		for i := 0; i < model.NumDisplays; i++ {
			if err := o.Displays.Clear(i); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, l := range o.LEDs() {
		if err := l.Off(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("blank outputs: %w", err)
	}
	log.Info().Msg("Outputs blanked")
	return nil
}
