//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-gpiocdev"
)

// RealChip owns a gpiocdev chip and every line requested through it.
type RealChip struct {
	mu    sync.Mutex
	chip  *gpiocdev.Chip
	lines []interface{ Close() error }
}

func NewRealChip(name string) (*RealChip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &RealChip{chip: chip}, nil
}

func (c *RealChip) track(l interface{ Close() error }) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, l)
}

func (c *RealChip) Output(offset int, initial int) (Output, error) {
	l, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, fmt.Errorf("request output line %d: %w", offset, err)
	}
	c.track(l)
	return l, nil
}

func (c *RealChip) OpenDrain(offset int) (Output, error) {
	l, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(1), gpiocdev.AsOpenDrain, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request open-drain line %d: %w", offset, err)
	}
	c.track(l)
	return l, nil
}

func (c *RealChip) Input(offset int) (Input, error) {
	l, err := c.chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request input line %d: %w", offset, err)
	}
	c.track(l)
	return l, nil
}

// Encoder requests the A and B lines with both edges reported. The kernel
// delivers events on its own goroutine; the decoder state is locked.
func (c *RealChip) Encoder(a, b int) (*Quadrature, error) {
	q := NewQuadrature()
	handler := func(evt gpiocdev.LineEvent) {
		level := 0
		if evt.Type == gpiocdev.LineEventRisingEdge {
			level = 1
		}
		channel := ChannelA
		if evt.Offset == b {
			channel = ChannelB
		}
		q.Edge(channel, level)
	}

	lines, err := c.chip.RequestLines([]int{a, b},
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("request encoder lines %d/%d: %w", a, b, err)
	}

	levels := make([]int, 2)
	if err := lines.Values(levels); err != nil {
		lines.Close()
		return nil, fmt.Errorf("read encoder lines: %w", err)
	}
	q.Seed(levels[0], levels[1])
	c.track(lines)
	return q, nil
}

// Close releases every requested line, then the chip. Lines revert to the
// kernel default on release.
func (c *RealChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, l := range c.lines {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.lines = nil
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		log.Warn().Int("errors", len(errs)).Msg("GPIO release incomplete")
		return fmt.Errorf("close gpio: %w", errors.Join(errs...))
	}
	return nil
}
