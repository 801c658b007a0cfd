package interfacecontroller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/controllers/presetcontroller"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/params"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const machine = "interface"

func Evaluate(p *state.Panel, now time.Time) {
	set := p.Params

	switch p.Interface.Current() {
	case model.Locked:
		if p.Buttons.Active(model.SelectButton) {
			p.Interface.Request(model.Selecting)
		}

	case model.Selecting:
		if p.Interface.JustEntered() {
			p.Touch(now)
			set.TargetIndex = params.ClampCursor(int(set.TargetIndex), p.Family())
		}

		if d := p.ReadEncoder(p.Direction.Selecting); d != 0 {
			p.Touch(now)
			idx := set.MoveCursor(d, p.Family())
			log.Debug().Str("parameter", idx.String()).Msg("Cursor moved")
		}

		if p.Buttons.Active(model.SelectButton) {
			set.SelectedIndex = set.TargetIndex
			p.Interface.Request(model.Setting)
		} else if p.Idle(now) {
			p.Interface.Request(model.Locked)
		}

	case model.Setting:
		sel := set.SelectedIndex

		if d := p.ReadEncoder(p.Direction.Setting); d != 0 {
			p.Touch(now)
			v := set.StepTarget(sel, p.Family(), d)
			log.Debug().Str("parameter", sel.String()).Int("target", v).Msg("Target edited")
		}

		// click outranks long press
		if p.Buttons.Clicked(model.SelectButton) {
			set.ConfirmTarget(sel)
			recordEdit(p, state.EventEditConfirmed, sel, now)
			p.Interface.Request(model.Selecting)
			presetcontroller.Force(p, model.PresetNone, now)
		} else if p.Buttons.Held(model.SelectButton) {
			set.AbortTarget(sel)
			recordEdit(p, state.EventEditAborted, sel, now)
			p.Interface.Request(model.Selecting)
		} else if p.Idle(now) {
			set.AbortTarget(sel)
			recordEdit(p, state.EventEditAborted, sel, now)
			p.Interface.Request(model.Locked)
		}
	}

	commit(p, now)
}

// Force puts the interface into Setting on param, abandoning any other edit
// that is in flight.
func Force(p *state.Panel, param model.Parameter, now time.Time) {
	set := p.Params
	if p.Interface.Current() == model.Setting && set.SelectedIndex != param {
		set.AbortTarget(set.SelectedIndex)
		recordEdit(p, state.EventEditAborted, set.SelectedIndex, now)
	}
	set.SelectedIndex = param
	set.TargetIndex = param
	p.Interface.Request(model.Setting)
	commit(p, now)
}

func commit(p *state.Panel, now time.Time) {
	from, changed := p.Interface.Commit()
	if !changed {
		return
	}
	p.ClearButtons()
	p.ResetEncoder()
	p.Touch(now)

	to := p.Interface.Current()
	log.Info().Str("machine", machine).Str("from", from.String()).Str("to", to.String()).Msg("State transition")
	p.Record(state.Transition(machine, from, to, now))
}

func recordEdit(p *state.Panel, kind state.EventKind, param model.Parameter, now time.Time) {
	v := p.Params.Values[param]
	log.Info().Str("parameter", param.String()).Int("set", v.Set).Int("target", v.Target).Msg(string(kind))
	p.Record(state.Event{Kind: kind, Machine: machine, Parameter: param.String(), Value: v.Set, At: now})
}
