package operatingcontroller_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/vent-panel/internal/controllers/operatingcontroller"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

func TestToggle(t *testing.T) {
	assert.Equal(t, model.Pause, operatingcontroller.Toggle(model.Run))
	assert.Equal(t, model.Run, operatingcontroller.Toggle(model.Pause))
}

func TestEvaluate(t *testing.T) {
	now := time.Unix(0, 0)
	p := state.NewPanel(nil, input.DefaultDirection(), now)

	p.Buttons.Apply(model.StartButton, input.Clicked)
	operatingcontroller.Evaluate(p, now)
	assert.Equal(t, model.Pause, p.Operating.Current())

	p.Buttons.Apply(model.StartButton, input.LongPressStarted)
	p.Buttons.Apply(model.MuteButton, input.Clicked)
	operatingcontroller.Evaluate(p, now)
	assert.Equal(t, model.Run, p.Operating.Current())
	assert.False(t, p.Buttons.Active(model.StartButton))
	assert.True(t, p.Buttons.Active(model.MuteButton))
}
