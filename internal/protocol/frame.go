// Package protocol packs the panel status frame sent to the control unit and
// unpacks the telemetry it sends back.
package protocol

import (
	"encoding/hex"
	"fmt"

	"github.com/thatsimonsguy/vent-panel/internal/model"
)

const (
	FrameSize     = 8
	TelemetrySize = 16

	muteOffset   = 2
	valuesOffset = 3
)

// Frame is the fixed status layout:
// [operating, ventilation, mute, TV/10, frequency, I:E, Pmax, Ptrig].
type Frame [FrameSize]byte

func (f Frame) Hex() string {
	return hex.EncodeToString(f[:])
}

// Muted reports the mute byte.
func (f Frame) Muted() bool {
	return f[muteOffset] != 0
}

// Status is everything the frame carries, before truncation.
type Status struct {
	Operating   model.OperatingState
	Ventilation model.VentilationState
	Mute        bool
	Values      [model.NumParameters]int
}

// EncodeStatus truncates every field to one byte. Tidal volume is sent in
// tens of millilitres.
func EncodeStatus(s Status) Frame {
	var f Frame
	f[0] = byte(s.Operating)
	f[1] = byte(s.Ventilation)
	if s.Mute {
		f[muteOffset] = 1
	}
	for i, v := range s.Values {
		if model.Parameter(i) == model.TidalVolume {
			v /= 10
		}
		f[valuesOffset+i] = byte(v)
	}
	return f
}

// DecodeStatus reverses EncodeStatus as far as truncation allows.
func DecodeStatus(f Frame) Status {
	s := Status{
		Operating:   model.OperatingState(f[0]),
		Ventilation: model.VentilationState(f[1]),
		Mute:        f.Muted(),
	}
	for i := range s.Values {
		v := int(f[valuesOffset+i])
		if model.Parameter(i) == model.TidalVolume {
			v *= 10
		}
		s.Values[i] = v
	}
	return s
}

// ParseFrame reads a hex string into a frame.
func ParseFrame(s string) (Frame, error) {
	var f Frame
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("decode frame hex: %w", err)
	}
	if len(b) != FrameSize {
		return f, fmt.Errorf("frame is %d bytes, want %d", len(b), FrameSize)
	}
	copy(f[:], b)
	return f, nil
}
