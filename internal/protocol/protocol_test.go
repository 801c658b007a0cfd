package protocol_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
)

func TestEncodeStatusLayout(t *testing.T) {
	f := protocol.EncodeStatus(protocol.Status{
		Operating:   model.Pause,
		Ventilation: model.PressureControl,
		Mute:        false,
		Values:      [model.NumParameters]int{300, 12, 12, 5, 0},
	})

	assert.Equal(t, protocol.Frame{1, 2, 0, 30, 12, 12, 5, 0}, f)
	assert.Equal(t, "0102001e0c0c0500", f.Hex())
}

func TestEncodeStatusTruncates(t *testing.T) {
	f := protocol.EncodeStatus(protocol.Status{
		Operating:   model.Run,
		Ventilation: model.VolumeControlSetup,
		Mute:        true,
		Values:      [model.NumParameters]int{455, 300, 11, 60, 5},
	})

	assert.Equal(t, protocol.Frame{0, 1, 1, 45, 44, 11, 60, 5}, f)
}

func TestDecodeStatus(t *testing.T) {
	s := protocol.DecodeStatus(protocol.Frame{0, 3, 1, 35, 14, 12, 40, 2})

	assert.Equal(t, model.Run, s.Operating)
	assert.Equal(t, model.PressureControlSetup, s.Ventilation)
	assert.True(t, s.Mute)
	assert.Equal(t, [model.NumParameters]int{350, 14, 12, 40, 2}, s.Values)
}

func TestParseFrame(t *testing.T) {
	f, err := protocol.ParseFrame("0102001e0c0c0500")
	require.NoError(t, err)
	assert.Equal(t, protocol.Frame{1, 2, 0, 30, 12, 12, 5, 0}, f)

	_, err = protocol.ParseFrame("0102")
	assert.Error(t, err)

	_, err = protocol.ParseFrame("zz")
	assert.Error(t, err)
}

func TestDecodeTelemetry(t *testing.T) {
	raw := [protocol.TelemetrySize]byte{
		0x2c, 0x01, // 300
		0xc8, 0x00, // 200
		0x32, 0x00, // 50
		0x01, 0x00, // high pressure
		0x00, 0x00,
		0x00, 0x00,
		0x01, 0x00, // electronics
		0x00, 0x00,
	}

	tel := protocol.DecodeTelemetry(raw)

	assert.Equal(t, 300, tel.AchievedVolume())
	assert.Equal(t, 200, tel.PeakPressure())
	assert.Equal(t, 50, tel.PEEP())
	assert.Equal(t, [model.NumAlarms]bool{true, false, false, true, false}, tel.Alarms())
	assert.Equal(t, raw, tel.Encode())
}

func TestDecodeTelemetryNegative(t *testing.T) {
	tel := protocol.ParseTelemetry([]byte{0xff, 0xff})
	assert.Equal(t, -1, tel.AchievedVolume())
	assert.Zero(t, tel.PEEP())
}

func TestServeClearsMuteAfterOneRead(t *testing.T) {
	l := protocol.NewLink()
	l.Publish(protocol.Frame{1, 0, 0, 30, 12, 12, 5, 0})
	l.LatchMute()

	first := l.Serve()
	assert.True(t, first.Muted())
	assert.False(t, l.MutePending())

	second := l.Serve()
	assert.False(t, second.Muted())
	assert.Equal(t, protocol.Frame{1, 0, 0, 30, 12, 12, 5, 0}, second)
}

func TestServeIgnoresPublishedMuteByte(t *testing.T) {
	l := protocol.NewLink()
	l.Publish(protocol.Frame{1, 0, 1, 30, 12, 12, 5, 0})

	assert.False(t, l.Serve().Muted())
}

func TestReceivePreservesStaleTail(t *testing.T) {
	l := protocol.NewLink()
	full := make([]byte, protocol.TelemetrySize)
	for i := range full {
		full[i] = byte(i + 1)
	}
	assert.Equal(t, protocol.TelemetrySize, l.Receive(full))

	n := l.Receive([]byte{0xaa, 0xbb, 0xcc})
	assert.Equal(t, 3, n)

	raw := l.RawTelemetry()
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 4, 5}, raw[:5])
	assert.Equal(t, byte(16), raw[15])
}

func TestReceiveTruncatesLongWrites(t *testing.T) {
	l := protocol.NewLink()
	long := make([]byte, 40)
	assert.Equal(t, protocol.TelemetrySize, l.Receive(long))
}

func TestReceiveHook(t *testing.T) {
	l := protocol.NewLink()
	var got protocol.Telemetry
	var count int
	l.OnReceive(func(tel protocol.Telemetry, n int) {
		got = tel
		count = n
	})

	var tel protocol.Telemetry
	tel.Values[0] = 420
	tel.SetAlarm(model.LowPressureAlarm, true)
	raw := tel.Encode()
	l.Receive(raw[:])

	assert.Equal(t, protocol.TelemetrySize, count)
	assert.Equal(t, 420, got.AchievedVolume())
	assert.True(t, got.Alarm(model.LowPressureAlarm))
	assert.Equal(t, got, l.Telemetry())
}

func TestLinkConcurrentAccess(t *testing.T) {
	published := func(i int) protocol.Frame {
		return protocol.Frame{byte(i % 2), 0, 0, 30, 12, 12, 5, 0}
	}

	l := protocol.NewLink()
	l.Publish(published(0))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			l.Publish(published(i))
			l.LatchMute()
		}
	}()

	served := make([]protocol.Frame, 0, 1000)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			served = append(served, l.Serve())
			l.Receive([]byte{byte(i)})
		}
	}()
	wg.Wait()

	for _, f := range served {
		f[2] = 0
		assert.Contains(t, []protocol.Frame{published(0), published(1)}, f)
	}

	l.Serve()
	assert.False(t, l.Serve().Muted(), "latch cleared once served")

	assert.Equal(t, byte(999%256), l.RawTelemetry()[0])
}
