package gpio

import (
	"fmt"
	"sync"
)

// FakeLine records every value written to it.
type FakeLine struct {
	mu     sync.Mutex
	Offset int
	values []int
	level  int
	Closed bool

	// SetError, if set, is returned by SetValue and Value.
	SetError error
}

func (l *FakeLine) SetValue(v int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SetError != nil {
		return l.SetError
	}
	l.level = v
	l.values = append(l.values, v)
	return nil
}

func (l *FakeLine) Value() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SetError != nil {
		return 0, l.SetError
	}
	return l.level, nil
}

// SetLevel drives an input line from the outside.
func (l *FakeLine) SetLevel(v int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = v
}

func (l *FakeLine) Level() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Writes is the number of SetValue calls.
func (l *FakeLine) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values)
}

func (l *FakeLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Closed = true
	return nil
}

// FakeChip hands out FakeLines and refuses to hand out the same offset twice,
// like the kernel does.
type FakeChip struct {
	mu       sync.Mutex
	Lines    map[int]*FakeLine
	Encoders map[[2]int]*Quadrature
	Closed   bool
}

func NewFakeChip() *FakeChip {
	return &FakeChip{
		Lines:    make(map[int]*FakeLine),
		Encoders: make(map[[2]int]*Quadrature),
	}
}

func (c *FakeChip) request(offset, level int) (*FakeLine, error) {
	if _, busy := c.Lines[offset]; busy {
		return nil, fmt.Errorf("request line %d: device or resource busy", offset)
	}
	l := &FakeLine{Offset: offset, level: level}
	c.Lines[offset] = l
	return l, nil
}

func (c *FakeChip) Output(offset int, initial int) (Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.request(offset, initial)
}

func (c *FakeChip) OpenDrain(offset int) (Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.request(offset, 1)
}

// Input lines start high, as the pull-up leaves them.
func (c *FakeChip) Input(offset int) (Input, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.request(offset, 1)
}

func (c *FakeChip) Encoder(a, b int) (*Quadrature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, off := range []int{a, b} {
		if _, err := c.request(off, 1); err != nil {
			return nil, err
		}
	}
	q := NewQuadrature()
	q.Seed(1, 1)
	c.Encoders[[2]int{a, b}] = q
	return q, nil
}

// Line returns the fake behind offset, or nil.
func (c *FakeChip) Line(offset int) *FakeLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Lines[offset]
}

func (c *FakeChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.Lines {
		l.Close()
	}
	c.Closed = true
	return nil
}
