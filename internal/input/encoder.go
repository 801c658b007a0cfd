package input

import "sync/atomic"

// Encoder is a relative position counter. Read returns raw counts since the
// last Reset.
type Encoder interface {
	Read() int
	Reset()
}

// Direction carries the per-context sign and the counts per detent.
type Direction struct {
	Selecting      int
	Setting        int
	StepsPerDetent int
}

func DefaultDirection() Direction {
	return Direction{Selecting: 1, Setting: -1, StepsPerDetent: 1}
}

// Steps is the counts per detent. A zero step size counts every edge.
func (d Direction) Steps() int {
	if d.StepsPerDetent <= 0 {
		return 1
	}
	return d.StepsPerDetent
}

// Detents scales raw counts by sign and detent size, dropping any partial
// detent.
func (d Direction) Detents(raw, sign int) int {
	return sign * (raw / d.Steps())
}

// FakeEncoder is a scripted Encoder for tests and the simulator.
type FakeEncoder struct {
	count atomic.Int64
}

func (e *FakeEncoder) Turn(counts int) {
	e.count.Add(int64(counts))
}

func (e *FakeEncoder) Read() int {
	return int(e.count.Load())
}

func (e *FakeEncoder) Reset() {
	e.count.Store(0)
}
