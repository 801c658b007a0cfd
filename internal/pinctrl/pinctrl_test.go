package pinctrl

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/internal/config"
)

const sample = `
 0: ip    pu | hi // ID_SDA/GPIO0 = input
 2: no    pu | -- // GPIO2 = none
 4: ip    pn | lo // GPIO4 = input
 5: op dh pu | hi // GPIO5 = output
17: ip    pu | hi // GPIO17 = input
26: op dl pn | lo // GPIO26 = output
`

func TestParse(t *testing.T) {
	states, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, states, 6)

	tests := []struct {
		pin      int
		expected PinState
	}{
		{5, PinState{Pin: 5, Mode: "op", Pull: "pu", Drive: "dh", Level: "hi", Comment: "GPIO5 = output"}},
		{2, PinState{Pin: 2, Mode: "no", Pull: "pu", Level: "--", Comment: "GPIO2 = none"}},
		{26, PinState{Pin: 26, Mode: "op", Pull: "pn", Drive: "dl", Level: "lo", Comment: "GPIO26 = output"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, states[tc.pin])
	}
}

func TestParseSkipsNoise(t *testing.T) {
	states, err := Parse(strings.NewReader("garbage\n25: op dl pd | lo // GPIO25 = output\n"))
	require.NoError(t, err)
	assert.Len(t, states, 1)
	assert.Equal(t, "pd", states[25].Pull)
}

func intp(v int) *int { return &v }

func TestInspect(t *testing.T) {
	Run = func(args ...string) ([]byte, error) {
		assert.Equal(t, []string{"get"}, args)
		return []byte(sample), nil
	}
	defer func() { Run = defaultRun }()

	g := config.GPIO{
		ModeLEDs: []int{5, 4},
		Buttons:  []int{17},
		EncoderA: intp(26),
	}
	lines, err := Inspect(g)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	assert.False(t, lines[0].Mismatch(), "led driven")
	assert.True(t, lines[1].Mismatch(), "led left as input")
	assert.False(t, lines[2].Mismatch(), "button input")
	assert.Equal(t, "ip", lines[3].Want)
	assert.True(t, lines[3].Mismatch(), "encoder driven as output")
}

func TestInspectMissingPin(t *testing.T) {
	Run = func(...string) ([]byte, error) { return []byte(sample), nil }
	defer func() { Run = defaultRun }()

	lines, err := Inspect(config.GPIO{AlarmLEDs: []int{40}})
	require.NoError(t, err)
	assert.Nil(t, lines[0].State)
	assert.True(t, lines[0].Mismatch())
}

func TestInspectCommandError(t *testing.T) {
	Run = func(...string) ([]byte, error) { return nil, errors.New("not found") }
	defer func() { Run = defaultRun }()

	_, err := Inspect(config.GPIO{})
	assert.ErrorContains(t, err, "run pinctrl get")
}

var defaultRun = Run
