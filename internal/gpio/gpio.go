// Package gpio requests the panel's lines from the Linux GPIO character device.
// The fake implementation stands in for the hardware in tests, the simulator
// and safe mode.
package gpio

// Output is a requested output line. *gpiocdev.Line satisfies it.
type Output interface {
	SetValue(value int) error
	Close() error
}

// Input is a requested input line. *gpiocdev.Line satisfies it.
type Input interface {
	Value() (int, error)
	Close() error
}

// Chip hands out lines by offset.
type Chip interface {
	// Output requests a push-pull output driven to initial.
	Output(offset int, initial int) (Output, error)
	// OpenDrain requests an open-drain output released high.
	OpenDrain(offset int) (Output, error)
	// Input requests an input with the pull-up enabled.
	Input(offset int) (Input, error)
	// Encoder requests both quadrature lines and decodes their edges.
	Encoder(a, b int) (*Quadrature, error)
	Close() error
}

const DefaultChip = "gpiochip0"
