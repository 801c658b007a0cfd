package params

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/vent-panel/internal/model"
)

var families = []model.Family{model.VolumeFamily, model.PressureFamily}

func TestRangeTableInvariants(t *testing.T) {
	for _, p := range model.Parameters() {
		for _, f := range families {
			r := RangeFor(p, f)
			assert.LessOrEqual(t, r.Minimum, r.Maximum, "%s/%s", p, f)
			if r.Increment > 0 {
				assert.Zero(t, (r.Maximum-r.Minimum)%r.Increment, "%s/%s", p, f)
			}
			assert.LessOrEqual(t, r.Initial, r.Maximum, "%s/%s", p, f)
		}
	}
}

func TestSeedStaysInRange(t *testing.T) {
	for _, f := range families {
		s := NewSet(f)
		for _, p := range model.Parameters() {
			r := RangeFor(p, f)
			assert.GreaterOrEqual(t, s.SetValue(p), r.Minimum, "%s/%s", p, f)
			assert.LessOrEqual(t, s.SetValue(p), r.Maximum, "%s/%s", p, f)
			assert.Equal(t, s.SetValue(p), s.TargetValue(p), "%s/%s", p, f)
		}
	}

	s := NewSet(model.VolumeFamily)
	assert.Equal(t, 5, s.SetValue(model.MaxPressure))

	s.Seed(model.PressureFamily)
	assert.Equal(t, 15, s.SetValue(model.MaxPressure), "initial below the pc floor is raised")
}

func TestAppliedPresetsStayInRange(t *testing.T) {
	for _, f := range families {
		for _, level := range []model.PresetLevel{model.PresetLow, model.PresetMedium, model.PresetHigh} {
			s := NewSet(f)
			s.ApplyPreset(level, f)
			for _, p := range model.Parameters() {
				if p == model.TidalVolume && f == model.PressureFamily {
					continue // blanked, never edited
				}
				r := RangeFor(p, f)
				assert.GreaterOrEqual(t, s.SetValue(p), r.Minimum, "%s/%s/%s", p, f, level)
				assert.LessOrEqual(t, s.SetValue(p), r.Maximum, "%s/%s/%s", p, f, level)
			}
		}
	}
}

func TestQuantizeStep(t *testing.T) {
	tests := []struct {
		name     string
		param    model.Parameter
		family   model.Family
		current  int
		delta    int
		expected int
	}{
		{"tidal volume up one", model.TidalVolume, model.VolumeFamily, 300, 1, 310},
		{"tidal volume down three", model.TidalVolume, model.VolumeFamily, 300, -3, 270},
		{"tidal volume hard stop top", model.TidalVolume, model.VolumeFamily, 440, 50, 450},
		{"tidal volume hard stop bottom", model.TidalVolume, model.VolumeFamily, 210, -50, 200},
		{"frequency up", model.Frequency, model.VolumeFamily, 12, 2, 14},
		{"ie ratio top", model.IERatio, model.PressureFamily, 15, 1, 15},
		{"max pressure pc floor", model.MaxPressure, model.PressureFamily, 15, -4, 15},
		{"max pressure vc floor", model.MaxPressure, model.VolumeFamily, 3, -4, 0},
		{"trigger pressure", model.TriggerPressure, model.VolumeFamily, 0, 3, 3},
		{"pc tidal volume pinned", model.TidalVolume, model.PressureFamily, 250, 5, 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, QuantizeStep(tc.param, tc.family, tc.current, tc.delta))
		})
	}
}

func TestQuantizeStepZeroDeltaIsIdentity(t *testing.T) {
	for _, p := range model.Parameters() {
		for _, f := range families {
			r := RangeFor(p, f)
			if r.Increment == 0 {
				continue
			}
			for v := r.Minimum; v <= r.Maximum; v += r.Increment {
				assert.Equal(t, v, QuantizeStep(p, f, v, 0), "%s/%s/%d", p, f, v)
			}
		}
	}
}

func TestQuantizeStepAlwaysInRange(t *testing.T) {
	deltas := []int{-1000, -37, -5, -1, 0, 1, 5, 37, 1000}
	for _, p := range model.Parameters() {
		for _, f := range families {
			r := RangeFor(p, f)
			for _, d := range deltas {
				got := QuantizeStep(p, f, r.Initial, d)
				assert.GreaterOrEqual(t, got, r.Minimum)
				assert.LessOrEqual(t, got, r.Maximum)
			}
		}
	}
}

func TestConfirmAbortRoundTrip(t *testing.T) {
	s := NewSet(model.VolumeFamily)

	s.StepTarget(model.Frequency, model.VolumeFamily, 3)
	assert.Equal(t, 15, s.TargetValue(model.Frequency))
	assert.Equal(t, 12, s.SetValue(model.Frequency))

	s.ConfirmTarget(model.Frequency)
	assert.Equal(t, 15, s.SetValue(model.Frequency))
	assert.Equal(t, s.SetValue(model.Frequency), s.TargetValue(model.Frequency))

	s.AbortTarget(model.Frequency)
	assert.Equal(t, 15, s.SetValue(model.Frequency))
	assert.Equal(t, 15, s.TargetValue(model.Frequency))

	s.StepTarget(model.Frequency, model.VolumeFamily, -2)
	s.AbortTarget(model.Frequency)
	assert.Equal(t, 15, s.TargetValue(model.Frequency))
}

func TestApplyPreset(t *testing.T) {
	t.Run("volume family high", func(t *testing.T) {
		s := NewSet(model.VolumeFamily)
		s.Values[model.TriggerPressure] = Value{Set: 2, Target: 2}

		s.ApplyPreset(model.PresetHigh, model.VolumeFamily)

		assert.Equal(t, Value{400, 400}, s.Values[model.TidalVolume])
		assert.Equal(t, Value{12, 12}, s.Values[model.Frequency])
		assert.Equal(t, Value{11, 11}, s.Values[model.IERatio])
		assert.Equal(t, Value{40, 40}, s.Values[model.MaxPressure])
		assert.Equal(t, Value{2, 2}, s.Values[model.TriggerPressure], "trigger pressure is never preset")
	})

	t.Run("pressure family skips tidal volume", func(t *testing.T) {
		s := NewSet(model.VolumeFamily)

		s.ApplyPreset(model.PresetLow, model.PressureFamily)

		assert.Equal(t, Value{300, 300}, s.Values[model.TidalVolume])
		assert.Equal(t, Value{16, 16}, s.Values[model.Frequency])
		assert.Equal(t, Value{15, 15}, s.Values[model.MaxPressure], "low preset sits below the pc floor")
	})

	t.Run("pressure family medium", func(t *testing.T) {
		s := NewSet(model.PressureFamily)

		s.ApplyPreset(model.PresetMedium, model.PressureFamily)

		assert.Equal(t, Value{15, 15}, s.Values[model.MaxPressure])
		assert.Equal(t, Value{12, 12}, s.Values[model.Frequency])
	})

	t.Run("none leaves values", func(t *testing.T) {
		s := NewSet(model.VolumeFamily)
		before := s.Values

		s.ApplyPreset(model.PresetNone, model.VolumeFamily)

		assert.Equal(t, before, s.Values)
	})
}

func TestMoveCursor(t *testing.T) {
	s := NewSet(model.VolumeFamily)

	assert.Equal(t, model.TidalVolume, s.MoveCursor(-3, model.VolumeFamily))
	assert.Equal(t, model.IERatio, s.MoveCursor(2, model.VolumeFamily))
	assert.Equal(t, model.TriggerPressure, s.MoveCursor(40, model.VolumeFamily))

	tests := []struct {
		delta    int
		expected model.Parameter
	}{
		{-1, model.IERatio},
		{-2, model.Frequency},
		{-3, model.Frequency},
		{-100, model.Frequency},
		{-1 << 20, model.Frequency},
	}
	for _, tc := range tests {
		s.TargetIndex = model.MaxPressure
		assert.Equal(t, tc.expected, s.MoveCursor(tc.delta, model.PressureFamily), "delta %d", tc.delta)
	}
}
