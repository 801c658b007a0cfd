package startup

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/device"
	"github.com/thatsimonsguy/vent-panel/internal/display"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const (
	LampTestDuration  = 500 * time.Millisecond
	WaterfallDuration = 2 * time.Second
	WaterfallStep     = 100 * time.Millisecond
)

// Sleep is replaced in tests.
var Sleep = time.Sleep

var waterfall = display.Segments{0, display.SegA, display.SegG, display.SegD}

// SelfTest runs the boot lamp test: 8888 on every display with the alarm bank
// lit, then a segment waterfall with a running LED, then everything dark.
func SelfTest(out *device.Outputs, brightness uint8) error {
	log.Info().Uint8("brightness", brightness).Msg("Running panel self-test")

	if out.Displays != nil {
		if err := out.Displays.SetBrightness(brightness); err != nil {
			return fmt.Errorf("self-test: %w", err)
		}
	}

	var errs []error
	errs = append(errs, showAll(out, display.EncodeNumber(8888, false)))
	errs = append(errs, out.SetAlarmLEDs(true))
	Sleep(LampTestDuration)

	leds := out.LEDs()
	pattern := waterfall
	steps := int(WaterfallDuration / WaterfallStep)
	for i := 0; i < steps; i++ {
		errs = append(errs, showAll(out, pattern))
		if len(leds) > 0 {
			errs = append(errs, leds[(i+len(leds)-1)%len(leds)].Off())
			errs = append(errs, leds[i%len(leds)].On())
		}
		pattern = pattern.Rotate()
		Sleep(WaterfallStep)
	}

	errs = append(errs, out.AllOff())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("self-test: %w", err)
	}
	log.Info().Msg("Self-test complete")
	return nil
}

func showAll(out *device.Outputs, segs display.Segments) error {
	if out.Displays == nil {
		return nil
	}
	var errs []error
	for i := 0; i < model.NumDisplays; i++ {
		if err := out.Displays.Raw(i, segs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SeedDefaults loads the medium preset values into the panel without selecting
// the preset, so no preset indicator is lit at power-on.
func SeedDefaults(p *state.Panel) {
	p.Params.ApplyPreset(model.PresetMedium, p.Family())
	log.Info().
		Int("tidal_volume", p.Params.SetValue(model.TidalVolume)).
		Int("frequency", p.Params.SetValue(model.Frequency)).
		Int("ie_ratio", p.Params.SetValue(model.IERatio)).
		Int("max_pressure", p.Params.SetValue(model.MaxPressure)).
		Msg("Default parameters applied")
}

// ServiceUnit describes the systemd unit that runs the panel at boot.
type ServiceUnit struct {
	User       string
	WorkDir    string
	Binary     string
	ConfigFile string
}

func (u ServiceUnit) String() string {
	return fmt.Sprintf(`[Unit]
Description=Ventilator front panel
After=network.target

[Service]
Type=simple
User=%s
WorkingDirectory=%s
ExecStart=%s -config-file %s
Restart=on-failure
RestartSec=1s

[Install]
WantedBy=multi-user.target
`, u.User, u.WorkDir, u.Binary, u.ConfigFile)
}

// InstallService writes the unit file to path.
func InstallService(path string, u ServiceUnit) error {
	if err := os.WriteFile(path, []byte(u.String()), 0644); err != nil {
		return fmt.Errorf("write service unit: %w", err)
	}
	log.Info().Str("path", path).Msg("Service unit installed")
	return nil
}
