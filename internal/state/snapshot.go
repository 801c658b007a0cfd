package state

import (
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/model"
)

// ParameterSnapshot is one row of the parameter table as seen from outside.
type ParameterSnapshot struct {
	Name   string `json:"name"   cbor:"name"`
	Set    int    `json:"set"    cbor:"set"`
	Target int    `json:"target" cbor:"target"`
}

// Snapshot is a read-only copy of the panel for the API, journal and state
// file.
type Snapshot struct {
	Interface     string              `json:"interface"      cbor:"interface"`
	Operating     string              `json:"operating"      cbor:"operating"`
	Ventilation   string              `json:"ventilation"    cbor:"ventilation"`
	Preset        string              `json:"preset"         cbor:"preset"`
	Family        string              `json:"family"         cbor:"family"`
	SelectedIndex int                 `json:"selected_index" cbor:"selected_index"`
	TargetIndex   int                 `json:"target_index"   cbor:"target_index"`
	Parameters    []ParameterSnapshot `json:"parameters"     cbor:"parameters"`
	LastActivity  time.Time           `json:"last_activity"  cbor:"last_activity"`
}

func (p *Panel) Snapshot() Snapshot {
	s := Snapshot{
		Interface:     p.Interface.Current().String(),
		Operating:     p.Operating.Current().String(),
		Ventilation:   p.Ventilation.Current().String(),
		Preset:        p.Preset.Current().String(),
		Family:        p.Family().String(),
		SelectedIndex: int(p.Params.SelectedIndex),
		TargetIndex:   int(p.Params.TargetIndex),
		Parameters:    make([]ParameterSnapshot, 0, model.NumParameters),
		LastActivity:  p.LastActivity,
	}
	for _, param := range model.Parameters() {
		v := p.Params.Values[param]
		s.Parameters = append(s.Parameters, ParameterSnapshot{Name: param.String(), Set: v.Set, Target: v.Target})
	}
	return s
}
