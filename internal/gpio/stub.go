//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealChip is not available on non-Linux platforms.
type RealChip struct{}

func NewRealChip(string) (*RealChip, error) {
	return nil, errUnsupported
}

func (c *RealChip) Output(int, int) (Output, error) {
	return nil, errUnsupported
}

func (c *RealChip) OpenDrain(int) (Output, error) {
	return nil, errUnsupported
}

func (c *RealChip) Input(int) (Input, error) {
	return nil, errUnsupported
}

func (c *RealChip) Encoder(int, int) (*Quadrature, error) {
	return nil, errUnsupported
}

func (c *RealChip) Close() error {
	return nil
}
