package device

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/config"
	"github.com/thatsimonsguy/vent-panel/internal/display"
	"github.com/thatsimonsguy/vent-panel/internal/gpio"
	"github.com/thatsimonsguy/vent-panel/internal/model"
)

// Hardware is the panel's physical I/O.
type Hardware struct {
	Outputs *Outputs
	Buttons *gpio.Buttons
	Encoder *gpio.Quadrature
}

// Build requests every configured line from chip. The config is assumed to be
// validated.
func Build(chip gpio.Chip, cfg config.GPIO) (*Hardware, error) {
	out := &Outputs{}

	for i, off := range cfg.ParameterLEDs {
		led, err := newLED(chip, model.Parameter(i).String(), off, cfg.LEDActiveLow)
		if err != nil {
			return nil, err
		}
		out.ParameterLEDs[i] = led
	}
	for i, off := range cfg.ModeLEDs {
		led, err := newLED(chip, model.ModeLED(i).String(), off, cfg.LEDActiveLow)
		if err != nil {
			return nil, err
		}
		out.ModeLEDs[i] = led
	}
	for i, off := range cfg.AlarmLEDs {
		led, err := newLED(chip, model.Alarm(i).String(), off, cfg.LEDActiveLow)
		if err != nil {
			return nil, err
		}
		out.AlarmLEDs[i] = led
	}

	clk, err := chip.OpenDrain(*cfg.DisplayClock)
	if err != nil {
		return nil, fmt.Errorf("display clock: %w", err)
	}
	modules := make([]display.Module, 0, len(cfg.DisplayData))
	for i, off := range cfg.DisplayData {
		dio, err := chip.OpenDrain(off)
		if err != nil {
			return nil, fmt.Errorf("display %d data: %w", i, err)
		}
		modules = append(modules, display.NewTM1637(clk, dio))
	}
	out.Displays = display.NewBank(modules...)

	var offsets [model.NumButtons]int
	copy(offsets[:], cfg.Buttons)
	buttons, err := gpio.RequestButtons(chip, offsets)
	if err != nil {
		return nil, err
	}

	enc, err := chip.Encoder(*cfg.EncoderA, *cfg.EncoderB)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}

	log.Info().
		Int("leds", len(out.LEDs())).
		Int("displays", len(modules)).
		Bool("led_active_low", cfg.LEDActiveLow).
		Msg("Panel hardware ready")

	return &Hardware{Outputs: out, Buttons: buttons, Encoder: enc}, nil
}

func newLED(chip gpio.Chip, name string, offset int, activeLow bool) (*LED, error) {
	off := 0
	if activeLow {
		off = 1
	}
	line, err := chip.Output(offset, off)
	if err != nil {
		return nil, fmt.Errorf("led %s: %w", name, err)
	}
	return NewLED(name, line, activeLow), nil
}
