package presetcontroller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const machine = "preset"

// Next is the level a default-button click moves to.
func Next(level model.PresetLevel) model.PresetLevel {
	switch level {
	case model.PresetHigh:
		return model.PresetMedium
	case model.PresetMedium:
		return model.PresetLow
	case model.PresetLow:
		return model.PresetNone
	default:
		return model.PresetHigh
	}
}

// Evaluate reacts to the default button. Presets are frozen while running.
func Evaluate(p *state.Panel, now time.Time) {
	if p.Operating.Current() == model.Run {
		return
	}
	if p.Buttons.Clicked(model.DefaultButton) {
		p.Preset.Request(Next(p.Preset.Current()))
	}
	commit(p, now, true)
}

// Force moves the preset machine to level within the current cycle.
func Force(p *state.Panel, level model.PresetLevel, now time.Time) {
	p.Preset.Request(level)
	commit(p, now, false)
}

func commit(p *state.Panel, now time.Time, clearButtons bool) {
	from, changed := p.Preset.Commit()
	if !changed {
		return
	}
	to := p.Preset.Current()
	if clearButtons {
		p.ClearButtons()
	}

	log.Info().Str("machine", machine).Str("from", from.String()).Str("to", to.String()).Msg("State transition")
	p.Record(state.Transition(machine, from, to, now))

	if to == model.PresetNone {
		return
	}
	family := p.Family()
	p.Params.ApplyPreset(to, family)
	log.Debug().Str("level", to.String()).Str("family", family.String()).Msg("Applied preset")
	p.Record(state.Event{Kind: state.EventPresetApplied, Machine: machine, To: to.String(), At: now})
}
