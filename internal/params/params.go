// Package params holds the discretized clinical parameter tables and the
// set/target value store the state machines edit.
package params

import "github.com/thatsimonsguy/vent-panel/internal/model"

// Range describes the discrete values a parameter may take in one family.
// A zero Increment marks a range the operator cannot step through.
type Range struct {
	Initial   int
	Increment int
	Minimum   int
	Maximum   int
}

var ranges = [model.NumParameters][2]Range{
	model.TidalVolume:     {{300, 10, 200, 450}, {200, 0, 200, 300}},
	model.Frequency:       {{12, 1, 5, 20}, {12, 1, 5, 20}},
	model.IERatio:         {{12, 1, 11, 15}, {12, 1, 11, 15}}, // 1:(value-10)
	model.MaxPressure:     {{5, 1, 0, 60}, {5, 1, 15, 30}},
	model.TriggerPressure: {{0, 1, 0, 5}, {0, 1, 0, 5}},
}

// presets is indexed by parameter, family, then level (low, medium, high).
var presets = [model.NumParameters][2][3]int{
	model.TidalVolume:     {{300, 350, 400}, {250, 250, 250}},
	model.Frequency:       {{16, 14, 12}, {16, 12, 10}},
	model.IERatio:         {{13, 12, 11}, {13, 12, 11}},
	model.MaxPressure:     {{30, 35, 40}, {12, 15, 18}},
	model.TriggerPressure: {{0, 0, 0}, {0, 0, 0}},
}

// RangeFor returns the range table entry for a parameter in a family.
func RangeFor(p model.Parameter, f model.Family) Range {
	return ranges[p][f]
}

// PresetValue returns the preset table entry. Level must not be PresetNone.
func PresetValue(p model.Parameter, f model.Family, level model.PresetLevel) int {
	return presets[p][f][level]
}

// Steps is the number of discrete positions in the range minus one.
func (r Range) Steps() int {
	if r.Increment <= 0 {
		return 0
	}
	return (r.Maximum - r.Minimum) / r.Increment
}

// QuantizeStep moves current by delta increments within the parameter's range
// for the family, stopping hard at either end.
func QuantizeStep(p model.Parameter, f model.Family, current, delta int) int {
	r := RangeFor(p, f)
	if r.Increment <= 0 {
		return r.Minimum
	}
	index := (current-r.Minimum)/r.Increment + delta
	index = clamp(index, 0, r.Steps())
	return r.Minimum + index*r.Increment
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
