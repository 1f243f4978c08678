// Package gpio provides bidirectional GPIO line access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Level is the logic level of a digital line.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

// String returns "LOW" or "HIGH".
func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Bias is the pull resistor configuration of a line.
type Bias int

const (
	BiasNone Bias = iota
	BiasPullUp
	BiasPullDown
)

// Line is a single bidirectional digital line. The DHT22 protocol driver
// switches it between output and input mid-transaction, so reconfiguration
// must be cheap and must not glitch the electrical state.
type Line interface {
	// SetOutput reconfigures the line as an output driving the given level.
	SetOutput(level Level) error

	// SetInput reconfigures the line as an input with the given bias.
	SetInput(bias Bias) error

	// Write sets the output level. The line must be in output mode.
	Write(level Level) error

	// Read returns the current electrical level of the line.
	Read() (Level, error)

	// Close releases the line.
	Close() error
}

// Chip hands out lines by offset. One sensor transaction owns its line
// exclusively from RequestLine until Close.
type Chip interface {
	// RequestLine claims the line at the given offset, configured as an
	// output driving level with the given bias.
	RequestLine(offset int, level Level, bias Bias) (Line, error)

	// Close releases the chip handle. Lines requested from it must be
	// closed first.
	Close() error
}

// DefaultChip is the GPIO character device name on Raspberry Pi.
const DefaultChip = "gpiochip0"

// DefaultPin is the BCM pin number the sensor data line is wired to.
const DefaultPin = 16
