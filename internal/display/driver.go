package display

import (
	"fmt"
	"sync"
)

// Driver addresses the panel's modules by index.
type Driver interface {
	Number(index int, value int, decimal bool) error
	Raw(index int, segs Segments) error
	Clear(index int) error
	SetBrightness(level uint8) error
}

// Module is one physical four-digit display.
type Module interface {
	Write(segs Segments) error
	SetBrightness(level uint8) error
}

// Bank is a Driver over a fixed set of modules. It remembers what each module
// shows and skips writes that would not change it.
type Bank struct {
	modules []Module
	shown   []Segments
	valid   []bool
}

func NewBank(modules ...Module) *Bank {
	return &Bank{
		modules: modules,
		shown:   make([]Segments, len(modules)),
		valid:   make([]bool, len(modules)),
	}
}

func (b *Bank) Len() int {
	return len(b.modules)
}

func (b *Bank) Number(index int, value int, decimal bool) error {
	return b.Raw(index, EncodeNumber(value, decimal))
}

func (b *Bank) Raw(index int, segs Segments) error {
	if index < 0 || index >= len(b.modules) {
		return fmt.Errorf("display %d out of range", index)
	}
	if b.valid[index] && b.shown[index] == segs {
		return nil
	}
	if err := b.modules[index].Write(segs); err != nil {
		b.valid[index] = false
		return fmt.Errorf("write display %d: %w", index, err)
	}
	b.shown[index] = segs
	b.valid[index] = true
	return nil
}

func (b *Bank) Clear(index int) error {
	return b.Raw(index, Blank)
}

// SetBrightness applies to every module and forces a rewrite.
func (b *Bank) SetBrightness(level uint8) error {
	for i, m := range b.modules {
		if err := m.SetBrightness(level); err != nil {
			return fmt.Errorf("set brightness on display %d: %w", i, err)
		}
		b.valid[i] = false
	}
	return nil
}

// Shown reports what the bank believes module index displays.
func (b *Bank) Shown(index int) Segments {
	return b.shown[index]
}

// RecordingDriver keeps the last segments per index in memory. The simulator
// renders from it and tests assert on it.
type RecordingDriver struct {
	mu         sync.Mutex
	segs       map[int]Segments
	brightness uint8
	writes     int
}

func NewRecordingDriver() *RecordingDriver {
	return &RecordingDriver{segs: make(map[int]Segments)}
}

func (r *RecordingDriver) Number(index int, value int, decimal bool) error {
	return r.Raw(index, EncodeNumber(value, decimal))
}

func (r *RecordingDriver) Raw(index int, segs Segments) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segs[index] = segs
	r.writes++
	return nil
}

func (r *RecordingDriver) Clear(index int) error {
	return r.Raw(index, Blank)
}

func (r *RecordingDriver) SetBrightness(level uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brightness = level
	return nil
}

func (r *RecordingDriver) Segments(index int) Segments {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.segs[index]
}

func (r *RecordingDriver) Brightness() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.brightness
}

func (r *RecordingDriver) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
