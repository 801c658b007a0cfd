package ventilationcontroller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/controllers/interfacecontroller"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const machine = "ventilation"

// SuggestedMaxPressure is the unconfirmed max pressure a Setup state proposes.
func SuggestedMaxPressure(s model.VentilationState) int {
	if s == model.PressureControlSetup {
		return 15
	}
	return 35
}

// Destination is the mode a Setup state confirms into.
func Destination(s model.VentilationState) model.VentilationState {
	if s.Family() == model.PressureFamily {
		return model.PressureControl
	}
	return model.VolumeControl
}

// Origin is the mode a Setup state falls back to when aborted.
func Origin(s model.VentilationState) model.VentilationState {
	if s.Family() == model.PressureFamily {
		return model.VolumeControl
	}
	return model.PressureControl
}

func Evaluate(p *state.Panel, now time.Time) {
	cur := p.Ventilation.Current()
	entered := p.Ventilation.JustEntered()
	modeActive := p.Buttons.Active(model.ModeButton)

	switch cur {
	case model.VolumeControl:
		if modeActive {
			p.Ventilation.Request(model.PressureControlSetup)
		}

	case model.PressureControl:
		if entered {
			p.Params.ConfirmTarget(model.MaxPressure)
		}
		if modeActive {
			p.Ventilation.Request(model.VolumeControlSetup)
		}

	case model.VolumeControlSetup, model.PressureControlSetup:
		if entered {
			interfacecontroller.Force(p, model.MaxPressure, now)
			p.Params.Values[model.MaxPressure].Target = SuggestedMaxPressure(cur)
		}

		switch {
		case p.Operating.Current() != model.Run:
			// setup confirmation only gates a running ventilator
			p.Ventilation.Request(Destination(cur))
		case p.Buttons.Clicked(model.ModeButton):
			p.Params.ConfirmTarget(model.MaxPressure)
			record(p, state.EventEditConfirmed, now)
			p.Ventilation.Request(Destination(cur))
		case p.Buttons.Held(model.ModeButton):
			p.Params.AbortTarget(model.MaxPressure)
			record(p, state.EventEditAborted, now)
			p.Ventilation.Request(Origin(cur))
		}
	}

	from, changed := p.Ventilation.Commit()
	if !changed {
		return
	}
	p.ClearButtons()

	to := p.Ventilation.Current()
	log.Info().Str("machine", machine).Str("from", from.String()).Str("to", to.String()).
		Str("family", to.Family().String()).Msg("State transition")
	p.Record(state.Transition(machine, from, to, now))
}

func record(p *state.Panel, kind state.EventKind, now time.Time) {
	v := p.Params.Values[model.MaxPressure]
	p.Record(state.Event{Kind: kind, Machine: machine, Parameter: model.MaxPressure.String(), Value: v.Set, At: now})
}
