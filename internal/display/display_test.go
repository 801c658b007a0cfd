package display_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/internal/display"
)

const (
	d0 = display.SegA | display.SegB | display.SegC | display.SegD | display.SegE | display.SegF
	d1 = display.SegB | display.SegC
	d2 = display.SegA | display.SegB | display.SegD | display.SegE | display.SegG
	d3 = display.SegA | display.SegB | display.SegC | display.SegD | display.SegG
	d5 = display.SegA | display.SegC | display.SegD | display.SegF | display.SegG
	d8 = 0x7f
)

func TestEncodeNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		decimal  bool
		expected display.Segments
	}{
		{"zero", 0, false, display.Segments{0, 0, 0, d0}},
		{"three digits", 300, false, display.Segments{0, d3, d0, d0}},
		{"four digits", 8888, false, display.Segments{d8, d8, d8, d8}},
		{"implied decimal", 12, true, display.Segments{0, 0, d1 | display.SegDP, d2}},
		{"implied decimal below one", 5, true, display.Segments{0, 0, d0 | display.SegDP, d5}},
		{"negative", -5, false, display.Segments{0, 0, display.SegG, d5}},
		{"negative three digits", -123, false, display.Segments{display.SegG, d1, d2, d3}},
		{"too large", 10000, false, display.Dashes},
		{"too small", -1000, false, display.Dashes},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, display.EncodeNumber(tc.value, tc.decimal))
		})
	}
}

func TestRotate(t *testing.T) {
	s := display.Segments{0, display.SegA, display.SegG, display.SegD}
	assert.Equal(t, display.Segments{display.SegA, display.SegG, display.SegD, 0}, s.Rotate())
}

type fakeModule struct {
	writes     []display.Segments
	brightness uint8
	err        error
}

func (m *fakeModule) Write(s display.Segments) error {
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, s)
	return nil
}

func (m *fakeModule) SetBrightness(level uint8) error {
	m.brightness = level
	return nil
}

func TestBankSkipsUnchangedWrites(t *testing.T) {
	m := &fakeModule{}
	b := display.NewBank(m)

	require.NoError(t, b.Number(0, 42, false))
	require.NoError(t, b.Number(0, 42, false))
	require.NoError(t, b.Raw(0, display.Off))
	require.NoError(t, b.Clear(0))

	assert.Len(t, m.writes, 3)
	assert.Equal(t, display.Blank, b.Shown(0))
}

func TestBankBrightnessForcesRewrite(t *testing.T) {
	m := &fakeModule{}
	b := display.NewBank(m)

	require.NoError(t, b.Raw(0, display.All))
	require.NoError(t, b.SetBrightness(7))
	require.NoError(t, b.Raw(0, display.All))

	assert.Len(t, m.writes, 2)
	assert.Equal(t, uint8(7), m.brightness)
}

func TestBankErrors(t *testing.T) {
	m := &fakeModule{err: errors.New("bus stuck")}
	b := display.NewBank(m)

	assert.Error(t, b.Raw(1, display.All))
	err := b.Raw(0, display.All)
	assert.ErrorContains(t, err, "bus stuck")

	m.err = nil
	require.NoError(t, b.Raw(0, display.All))
	assert.Len(t, m.writes, 1, "failed write is retried")
}

func TestRecordingDriver(t *testing.T) {
	r := display.NewRecordingDriver()
	require.NoError(t, r.Number(3, 35, false))
	require.NoError(t, r.SetBrightness(7))

	assert.Equal(t, display.EncodeNumber(35, false), r.Segments(3))
	assert.Equal(t, uint8(7), r.Brightness())
	assert.Equal(t, 1, r.Writes())
}

type recordingPin struct {
	name   string
	trace  *[]string
	values []int
}

func (p *recordingPin) SetValue(v int) error {
	p.values = append(p.values, v)
	*p.trace = append(*p.trace, p.name)
	return nil
}

func TestTM1637WritesFrames(t *testing.T) {
	var trace []string
	clk := &recordingPin{name: "clk", trace: &trace}
	dio := &recordingPin{name: "dio", trace: &trace}
	tm := display.NewTM1637(clk, dio).WithDelay(func() {})

	require.NoError(t, tm.Write(display.All))

	// 7 bytes of 8 data bits: every data bit sets dio once.
	dataBits := 0
	for i := 0; i+2 < len(trace); i++ {
		if trace[i] == "clk" && trace[i+1] == "dio" && trace[i+2] == "clk" {
			dataBits++
		}
	}
	assert.GreaterOrEqual(t, dataBits, 7*8)
	assert.Equal(t, 1, clk.values[len(clk.values)-1], "clock idles high")
	assert.Equal(t, 1, dio.values[len(dio.values)-1], "data idles high")
}

type failingPin struct{}

func (failingPin) SetValue(int) error { return errors.New("line released") }

func TestTM1637Error(t *testing.T) {
	tm := display.NewTM1637(failingPin{}, failingPin{}).WithDelay(func() {})
	assert.ErrorContains(t, tm.Write(display.Blank), "line released")
}

func TestSegmentsString(t *testing.T) {
	tests := []struct {
		segs     display.Segments
		expected string
	}{
		{display.EncodeNumber(300, false), " 300"},
		{display.EncodeNumber(12, true), "  1.2"},
		{display.EncodeNumber(-5, false), "  -5"},
		{display.Off, " 0FF"},
		{display.Dashes, "----"},
		{display.Blank, "    "},
		{display.All, "8.8.8.8."},
		{display.Segments{0, display.SegA, display.SegG, display.SegD}, " ?-?"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.segs.String())
	}
}
