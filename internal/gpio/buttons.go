package gpio

import (
	"fmt"

	"github.com/thatsimonsguy/vent-panel/internal/model"
)

// Buttons reads the five button inputs. Buttons pull the line to ground, so a
// low level reads as pressed.
type Buttons struct {
	lines [model.NumButtons]Input
}

// RequestButtons requests one pulled-up input per button, indexed by
// model.Button.
func RequestButtons(chip Chip, offsets [model.NumButtons]int) (*Buttons, error) {
	b := &Buttons{}
	for i, off := range offsets {
		l, err := chip.Input(off)
		if err != nil {
			return nil, fmt.Errorf("button %s: %w", model.Button(i), err)
		}
		b.lines[i] = l
	}
	return b, nil
}

// Pressed samples every button.
func (b *Buttons) Pressed() ([model.NumButtons]bool, error) {
	var out [model.NumButtons]bool
	for i, l := range b.lines {
		v, err := l.Value()
		if err != nil {
			return out, fmt.Errorf("read button %s: %w", model.Button(i), err)
		}
		out[i] = v == 0
	}
	return out, nil
}
