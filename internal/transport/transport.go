// Package transport carries the panel's side of the control-unit bus over a
// UART bridge. Each exchange starts with a one-byte tag.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"

	"github.com/thatsimonsguy/vent-panel/internal/protocol"
)

const (
	// TagRequest asks for the status frame.
	TagRequest byte = 0xa5
	// TagTelemetry is followed by up to protocol.TelemetrySize bytes.
	TagTelemetry byte = 0x5a
)

// Port is a byte stream whose reads return (0, nil) on timeout.
// serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// OpenSerial opens the bridge UART at 8N1.
func OpenSerial(name string, baud int, readTimeout time.Duration) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return port, nil
}

// Stats counts exchanges since start.
type Stats struct {
	Requests      int64 `json:"requests"`
	Telemetry     int64 `json:"telemetry"`
	UnknownTags   int64 `json:"unknown_tags"`
	PartialFrames int64 `json:"partial_frames"`
}

// Bridge answers requests from the link's frame and hands telemetry to it.
type Bridge struct {
	port Port
	link *protocol.Link

	requests, telemetry, unknown, partial atomic.Int64
}

func New(port Port, link *protocol.Link) *Bridge {
	return &Bridge{port: port, link: link}
}

func (b *Bridge) Stats() Stats {
	return Stats{
		Requests:      b.requests.Load(),
		Telemetry:     b.telemetry.Load(),
		UnknownTags:   b.unknown.Load(),
		PartialFrames: b.partial.Load(),
	}
}

// Run serves the bus until ctx is done or the port fails. Closing the port
// from another goroutine also ends it.
func (b *Bridge) Run(ctx context.Context) error {
	tag := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		n, err := b.port.Read(tag)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read tag: %w", err)
		}
		if n == 0 {
			continue
		}

		switch tag[0] {
		case TagRequest:
			if err := b.serve(); err != nil {
				return err
			}
		case TagTelemetry:
			if err := b.receive(); err != nil {
				return err
			}
		default:
			b.unknown.Add(1)
			log.Debug().Hex("tag", tag).Msg("Unknown bus tag")
		}
	}
}

func (b *Bridge) serve() error {
	f := b.link.Serve()
	if _, err := b.port.Write(f[:]); err != nil {
		return fmt.Errorf("write status frame: %w", err)
	}
	b.requests.Add(1)
	return nil
}

// receive collects up to a full telemetry buffer. A read timeout ends the
// frame early and the short frame is delivered as-is.
func (b *Bridge) receive() error {
	var buf [protocol.TelemetrySize]byte
	got := 0
	for got < len(buf) {
		n, err := b.port.Read(buf[got:])
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read telemetry: %w", err)
		}
		got += n
		if n == 0 || err != nil {
			break
		}
	}

	b.link.Receive(buf[:got])
	b.telemetry.Add(1)
	if got < len(buf) {
		b.partial.Add(1)
	}
	return nil
}
