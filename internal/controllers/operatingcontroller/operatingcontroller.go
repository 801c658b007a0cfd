package operatingcontroller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/controllers/presetcontroller"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const machine = "operating"

func Toggle(s model.OperatingState) model.OperatingState {
	if s == model.Run {
		return model.Pause
	}
	return model.Run
}

// Evaluate toggles run/pause on a start-button long press.
func Evaluate(p *state.Panel, now time.Time) {
	if p.Buttons.Held(model.StartButton) {
		p.Operating.Request(Toggle(p.Operating.Current()))
	}

	from, changed := p.Operating.Commit()
	if !changed {
		return
	}
	p.ClearButtons()

	to := p.Operating.Current()
	log.Info().Str("machine", machine).Str("from", from.String()).Str("to", to.String()).Msg("State transition")
	p.Record(state.Transition(machine, from, to, now))

	if to == model.Run {
		presetcontroller.Force(p, model.PresetNone, now)
	}
}
