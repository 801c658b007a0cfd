package gpio_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/internal/gpio"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
)

var _ input.Encoder = (*gpio.Quadrature)(nil)

type edge struct {
	ch    gpio.Channel
	level int
}

func TestQuadrature(t *testing.T) {
	tests := []struct {
		name     string
		edges    []edge
		expected int
	}{
		{
			name:     "a leads one full cycle",
			edges:    []edge{{gpio.ChannelA, 0}, {gpio.ChannelB, 0}, {gpio.ChannelA, 1}, {gpio.ChannelB, 1}},
			expected: 4,
		},
		{
			name:     "b leads one full cycle",
			edges:    []edge{{gpio.ChannelB, 0}, {gpio.ChannelA, 0}, {gpio.ChannelB, 1}, {gpio.ChannelA, 1}},
			expected: -4,
		},
		{
			name:     "bounce on one channel cancels",
			edges:    []edge{{gpio.ChannelA, 0}, {gpio.ChannelA, 1}, {gpio.ChannelA, 0}, {gpio.ChannelA, 1}},
			expected: 0,
		},
		{
			name:     "repeated level is ignored",
			edges:    []edge{{gpio.ChannelA, 1}, {gpio.ChannelB, 1}},
			expected: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := gpio.NewQuadrature()
			q.Seed(1, 1)
			for _, e := range tc.edges {
				q.Edge(e.ch, e.level)
			}
			assert.Equal(t, tc.expected, q.Read())

			q.Reset()
			assert.Zero(t, q.Read())
		})
	}
}

func TestFakeChipRejectsSharedOffsets(t *testing.T) {
	chip := gpio.NewFakeChip()
	_, err := chip.Output(5, 0)
	require.NoError(t, err)

	_, err = chip.Input(5)
	assert.ErrorContains(t, err, "busy")

	_, err = chip.Encoder(6, 5)
	assert.Error(t, err)
}

func TestFakeLineRecordsWrites(t *testing.T) {
	chip := gpio.NewFakeChip()
	out, err := chip.OpenDrain(3)
	require.NoError(t, err)

	require.NoError(t, out.SetValue(0))
	require.NoError(t, out.SetValue(1))

	l := chip.Line(3)
	assert.Equal(t, 2, l.Writes())
	assert.Equal(t, 1, l.Level())

	require.NoError(t, chip.Close())
	assert.True(t, l.Closed)
}

func TestButtonsAreActiveLow(t *testing.T) {
	chip := gpio.NewFakeChip()
	offsets := [model.NumButtons]int{10, 11, 12, 13, 14}
	b, err := gpio.RequestButtons(chip, offsets)
	require.NoError(t, err)

	pressed, err := b.Pressed()
	require.NoError(t, err)
	assert.Equal(t, [model.NumButtons]bool{}, pressed, "pull-up reads released")

	chip.Line(13).SetLevel(0)
	pressed, err = b.Pressed()
	require.NoError(t, err)
	assert.True(t, pressed[model.MuteButton])
	assert.False(t, pressed[model.StartButton])

	chip.Line(10).SetError = errors.New("line gone")
	_, err = b.Pressed()
	assert.ErrorContains(t, err, "start")
}

func TestRequestButtonsConflict(t *testing.T) {
	chip := gpio.NewFakeChip()
	_, err := gpio.RequestButtons(chip, [model.NumButtons]int{1, 2, 3, 2, 4})
	assert.ErrorContains(t, err, "mute")
}
