package display

import (
	"fmt"
	"time"
)

// Pin is an open-drain output line. *gpiocdev.Line satisfies it.
type Pin interface {
	SetValue(value int) error
}

const (
	cmdData    byte = 0x40
	cmdAddress byte = 0xc0
	cmdControl byte = 0x80
	displayOn  byte = 0x08

	DefaultBitDelay = 5 * time.Microsecond
	MaxBrightness   = 7
)

// TM1637 bit-bangs one module. Modules share the clock line and each has its
// own data line, so writes on a shared clock must not overlap.
type TM1637 struct {
	clk        Pin
	dio        Pin
	brightness uint8
	delay      func()
}

func NewTM1637(clk, dio Pin) *TM1637 {
	return &TM1637{
		clk:        clk,
		dio:        dio,
		brightness: MaxBrightness,
		delay:      func() { time.Sleep(DefaultBitDelay) },
	}
}

// WithDelay swaps the inter-edge delay, mostly so tests run at full speed.
func (t *TM1637) WithDelay(fn func()) *TM1637 {
	t.delay = fn
	return t
}

func (t *TM1637) SetBrightness(level uint8) error {
	if level > MaxBrightness {
		level = MaxBrightness
	}
	t.brightness = level
	return nil
}

func (t *TM1637) Write(segs Segments) error {
	w := &wire{t: t}
	w.start()
	w.byte(cmdData)
	w.stop()

	w.start()
	w.byte(cmdAddress)
	for _, s := range segs {
		w.byte(s)
	}
	w.stop()

	w.start()
	w.byte(cmdControl | displayOn | t.brightness)
	w.stop()

	if w.err != nil {
		return fmt.Errorf("tm1637 write: %w", w.err)
	}
	return nil
}

// wire carries the first error through a transfer so the sequence reads
// straight through.
type wire struct {
	t   *TM1637
	err error
}

func (w *wire) set(p Pin, v int) {
	if w.err != nil {
		return
	}
	w.err = p.SetValue(v)
	w.t.delay()
}

func (w *wire) start() {
	w.set(w.t.clk, 1)
	w.set(w.t.dio, 1)
	w.set(w.t.dio, 0)
	w.set(w.t.clk, 0)
}

func (w *wire) stop() {
	w.set(w.t.clk, 0)
	w.set(w.t.dio, 0)
	w.set(w.t.clk, 1)
	w.set(w.t.dio, 1)
}

// byte sends LSB first and clocks out the ack slot without sampling it.
func (w *wire) byte(b byte) {
	for i := 0; i < 8; i++ {
		w.set(w.t.clk, 0)
		w.set(w.t.dio, int(b>>i)&1)
		w.set(w.t.clk, 1)
	}
	w.set(w.t.clk, 0)
	w.set(w.t.dio, 1)
	w.set(w.t.clk, 1)
	w.set(w.t.clk, 0)
}
