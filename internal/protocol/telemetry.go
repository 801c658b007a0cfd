package protocol

import (
	"encoding/binary"

	"github.com/thatsimonsguy/vent-panel/internal/model"
)

const (
	achievedVolumeIndex = 0
	peakPressureIndex   = 1
	peepIndex           = 2
	alarmIndex          = 3
)

// Telemetry is the eight signed 16-bit values the control unit reports:
// achieved volume, peak pressure, PEEP, then the five alarm flags.
type Telemetry struct {
	Values [TelemetrySize / 2]int16
}

// DecodeTelemetry reads little-endian values. Nothing is validated.
func DecodeTelemetry(b [TelemetrySize]byte) Telemetry {
	var t Telemetry
	for i := range t.Values {
		t.Values[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return t
}

// ParseTelemetry decodes a possibly short buffer; missing bytes read as zero.
func ParseTelemetry(b []byte) Telemetry {
	var buf [TelemetrySize]byte
	copy(buf[:], b)
	return DecodeTelemetry(buf)
}

// Encode is the wire form, used by the simulator and tests.
func (t Telemetry) Encode() [TelemetrySize]byte {
	var b [TelemetrySize]byte
	for i, v := range t.Values {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

func (t Telemetry) AchievedVolume() int {
	return int(t.Values[achievedVolumeIndex])
}

func (t Telemetry) PeakPressure() int {
	return int(t.Values[peakPressureIndex])
}

func (t Telemetry) PEEP() int {
	return int(t.Values[peepIndex])
}

func (t Telemetry) Alarm(a model.Alarm) bool {
	return t.Values[alarmIndex+int(a)] != 0
}

func (t Telemetry) Alarms() [model.NumAlarms]bool {
	var out [model.NumAlarms]bool
	for i := range out {
		out[i] = t.Alarm(model.Alarm(i))
	}
	return out
}

// SetAlarm is a builder for tests and the simulator.
func (t *Telemetry) SetAlarm(a model.Alarm, on bool) {
	var v int16
	if on {
		v = 1
	}
	t.Values[alarmIndex+int(a)] = v
}
