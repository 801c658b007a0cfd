package device

import (
	"fmt"
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/gpio"
	"github.com/thatsimonsguy/vent-panel/internal/presentation"
)

// LED drives one indicator line. Writes are skipped when the level would not
// change.
type LED struct {
	Name      string
	line      gpio.Output
	activeLow bool

	lit   bool
	known bool
}

func NewLED(name string, line gpio.Output, activeLow bool) *LED {
	return &LED{Name: name, line: line, activeLow: activeLow}
}

func (l *LED) On() error {
	return l.Set(true)
}

func (l *LED) Off() error {
	return l.Set(false)
}

// Blink lights the LED for the first duty milliseconds of each 255 ms period.
func (l *LED) Blink(duty uint8, elapsed time.Duration) error {
	return l.Set(presentation.Blink(duty).Lit(elapsed))
}

// Apply resolves a presentation command at elapsed.
func (l *LED) Apply(cmd presentation.LEDCommand, elapsed time.Duration) error {
	return l.Set(cmd.Lit(elapsed))
}

func (l *LED) Set(lit bool) error {
	if l.known && l.lit == lit {
		return nil
	}
	level := 0
	if lit != l.activeLow {
		level = 1
	}
	if err := l.line.SetValue(level); err != nil {
		l.known = false
		return fmt.Errorf("set led %s: %w", l.Name, err)
	}
	l.lit = lit
	l.known = true
	return nil
}

// Lit is the last level written.
func (l *LED) Lit() bool {
	return l.lit
}
