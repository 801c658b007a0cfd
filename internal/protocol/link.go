package protocol

import "sync/atomic"

// Link holds the only state shared between the control cycle and the bus
// transport. Every buffer is replaced whole so neither side sees a torn frame.
type Link struct {
	frame     atomic.Pointer[Frame]
	telemetry atomic.Pointer[[TelemetrySize]byte]
	mute      atomic.Bool

	onReceive func(t Telemetry, n int)
}

func NewLink() *Link {
	l := &Link{}
	l.frame.Store(&Frame{})
	l.telemetry.Store(&[TelemetrySize]byte{})
	return l
}

// OnReceive registers the hook run after each Receive. Set it before the
// transport starts.
func (l *Link) OnReceive(fn func(t Telemetry, n int)) {
	l.onReceive = fn
}

// Publish replaces the outgoing frame. The mute byte is ignored here and
// filled in by Serve.
func (l *Link) Publish(f Frame) {
	l.frame.Store(&f)
}

// Frame is the last published frame, without consuming the mute latch.
func (l *Link) Frame() Frame {
	return *l.frame.Load()
}

// LatchMute records a mute press until the next Serve.
func (l *Link) LatchMute() {
	l.mute.Store(true)
}

func (l *Link) MutePending() bool {
	return l.mute.Load()
}

// Serve answers a data request. The mute flag is sent once and then cleared.
func (l *Link) Serve() Frame {
	f := *l.frame.Load()
	f[muteOffset] = 0
	if l.mute.Swap(false) {
		f[muteOffset] = 1
	}
	return f
}

// Receive copies up to TelemetrySize bytes over the previous buffer. A short
// write leaves the tail of the older frame in place. Receive must be called
// from a single goroutine.
func (l *Link) Receive(b []byte) int {
	buf := *l.telemetry.Load()
	n := copy(buf[:], b)
	l.telemetry.Store(&buf)

	if l.onReceive != nil {
		l.onReceive(DecodeTelemetry(buf), n)
	}
	return n
}

func (l *Link) Telemetry() Telemetry {
	return DecodeTelemetry(*l.telemetry.Load())
}

// RawTelemetry is the byte buffer as last written.
func (l *Link) RawTelemetry() [TelemetrySize]byte {
	return *l.telemetry.Load()
}
