package interfacecontroller_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/internal/controllers/interfacecontroller"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

func TestForceFromLocked(t *testing.T) {
	now := time.Unix(0, 0)
	p := state.NewPanel(nil, input.DefaultDirection(), now)

	interfacecontroller.Force(p, model.MaxPressure, now.Add(time.Second))

	assert.Equal(t, model.Setting, p.Interface.Current())
	assert.Equal(t, model.MaxPressure, p.Params.SelectedIndex)
	assert.Equal(t, model.MaxPressure, p.Params.TargetIndex)
	assert.Equal(t, now.Add(time.Second), p.LastActivity)
}

func TestForceAbandonsOtherEdit(t *testing.T) {
	now := time.Unix(0, 0)
	enc := &input.FakeEncoder{}
	p := state.NewPanel(enc, input.DefaultDirection(), now)
	p.Params.SelectedIndex = model.IERatio
	p.Interface.Request(model.Setting)
	p.Interface.Commit()
	p.Params.StepTarget(model.IERatio, model.VolumeFamily, 2)
	require.Equal(t, 14, p.Params.TargetValue(model.IERatio))

	interfacecontroller.Force(p, model.MaxPressure, now)

	assert.Equal(t, 12, p.Params.TargetValue(model.IERatio))
	assert.Equal(t, model.MaxPressure, p.Params.SelectedIndex)
	events := p.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, state.EventEditAborted, events[0].Kind)
	assert.Equal(t, "ie_ratio", events[0].Parameter)
}

func TestLockedIgnoresEncoder(t *testing.T) {
	now := time.Unix(0, 0)
	enc := &input.FakeEncoder{}
	p := state.NewPanel(enc, input.DefaultDirection(), now)

	enc.Turn(4)
	interfacecontroller.Evaluate(p, now)

	assert.Equal(t, model.Locked, p.Interface.Current())
	assert.Equal(t, model.TidalVolume, p.Params.TargetIndex)
}
