package params

import "github.com/thatsimonsguy/vent-panel/internal/model"

// Value pairs the last confirmed value with the one being edited.
type Value struct {
	Set    int `json:"set"`
	Target int `json:"target"`
}

// Set is the ordered parameter collection plus the two cursors. TargetIndex
// moves while selecting; SelectedIndex is fixed while setting.
type Set struct {
	Values        [model.NumParameters]Value `json:"values"`
	SelectedIndex model.Parameter            `json:"selected_index"`
	TargetIndex   model.Parameter            `json:"target_index"`
}

// NewSet returns a set seeded with the family's initial values.
func NewSet(f model.Family) *Set {
	s := &Set{}
	s.Seed(f)
	return s
}

// Seed resets every value to its initial, clamped into the family's range.
func (s *Set) Seed(f model.Family) {
	for _, p := range model.Parameters() {
		r := RangeFor(p, f)
		v := clamp(r.Initial, r.Minimum, r.Maximum)
		s.Values[p] = Value{Set: v, Target: v}
	}
}

func (s *Set) SetValue(p model.Parameter) int {
	return s.Values[p].Set
}

func (s *Set) TargetValue(p model.Parameter) int {
	return s.Values[p].Target
}

// SetValues returns the confirmed values in parameter order.
func (s *Set) SetValues() [model.NumParameters]int {
	var out [model.NumParameters]int
	for i, v := range s.Values {
		out[i] = v.Set
	}
	return out
}

// ApplyPreset writes the preset bundle into both set and target values. Trigger
// pressure is never part of a preset and tidal volume is left alone in the
// pressure family. Table values outside the family range are pulled onto the
// nearest edge.
func (s *Set) ApplyPreset(level model.PresetLevel, f model.Family) {
	if level == model.PresetNone {
		return
	}
	for _, p := range model.Parameters() {
		if p == model.TriggerPressure {
			continue
		}
		if p == model.TidalVolume && f == model.PressureFamily {
			continue
		}
		r := RangeFor(p, f)
		v := clamp(PresetValue(p, f, level), r.Minimum, r.Maximum)
		s.Values[p] = Value{Set: v, Target: v}
	}
}

func (s *Set) ConfirmTarget(p model.Parameter) {
	s.Values[p].Set = s.Values[p].Target
}

func (s *Set) AbortTarget(p model.Parameter) {
	s.Values[p].Target = s.Values[p].Set
}

// StepTarget quantizes an encoder delta onto the target value of p.
func (s *Set) StepTarget(p model.Parameter, f model.Family, delta int) int {
	s.Values[p].Target = QuantizeStep(p, f, s.Values[p].Target, delta)
	return s.Values[p].Target
}

// MoveCursor shifts TargetIndex by delta and clamps it to the parameters the
// family allows selecting.
func (s *Set) MoveCursor(delta int, f model.Family) model.Parameter {
	s.TargetIndex = ClampCursor(int(s.TargetIndex)+delta, f)
	return s.TargetIndex
}

// ClampCursor bounds a cursor position. Tidal volume is not selectable in the
// pressure family.
func ClampCursor(index int, f model.Family) model.Parameter {
	lo := 0
	if f == model.PressureFamily {
		lo = int(model.Frequency)
	}
	return model.Parameter(clamp(index, lo, model.NumParameters-1))
}
