//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealChip opens the Linux GPIO character device.
type RealChip struct {
	chip *gpiocdev.Chip
}

// NewRealChip opens the named GPIO chip (e.g. "gpiochip0").
func NewRealChip(name string) (*RealChip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &RealChip{chip: chip}, nil
}

// RequestLine claims the line at offset as an output driving level.
func (c *RealChip) RequestLine(offset int, level Level, bias Bias) (Line, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(int(level)), biasOption(bias))
	if err != nil {
		return nil, fmt.Errorf("request line %d: %w", offset, err)
	}
	return &RealLine{line: line, offset: offset}, nil
}

// Close releases the chip handle.
func (c *RealChip) Close() error {
	if err := c.chip.Close(); err != nil {
		return fmt.Errorf("close chip: %w", err)
	}
	return nil
}

// RealLine wraps a gpiocdev line.
type RealLine struct {
	line   *gpiocdev.Line
	offset int
}

// SetOutput reconfigures the line as an output driving the given level.
func (l *RealLine) SetOutput(level Level) error {
	if err := l.line.Reconfigure(gpiocdev.AsOutput(int(level))); err != nil {
		return fmt.Errorf("line %d to output: %w", l.offset, err)
	}
	return nil
}

// SetInput reconfigures the line as an input with the given bias.
func (l *RealLine) SetInput(bias Bias) error {
	if err := l.line.Reconfigure(gpiocdev.AsInput, biasOption(bias)); err != nil {
		return fmt.Errorf("line %d to input: %w", l.offset, err)
	}
	return nil
}

// Write sets the output level.
func (l *RealLine) Write(level Level) error {
	if err := l.line.SetValue(int(level)); err != nil {
		return fmt.Errorf("write line %d: %w", l.offset, err)
	}
	return nil
}

// Read returns the current level. Called from a busy loop, so the error
// path stays allocation-free on success.
func (l *RealLine) Read() (Level, error) {
	v, err := l.line.Value()
	if err != nil {
		return Low, err
	}
	if v != 0 {
		return High, nil
	}
	return Low, nil
}

// Close reconfigures the line back to input with pull-up (the bus idle
// state the sensor expects between reads) and releases it.
func (l *RealLine) Close() error {
	if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		l.line.Close()
		return fmt.Errorf("reconfigure line %d: %w", l.offset, err)
	}
	if err := l.line.Close(); err != nil {
		return fmt.Errorf("close line %d: %w", l.offset, err)
	}
	return nil
}

// biasOption returns the concrete BiasOption type so the result can be
// passed to both RequestLine and Reconfigure.
func biasOption(bias Bias) gpiocdev.LineBias {
	switch bias {
	case BiasPullUp:
		return gpiocdev.WithPullUp
	case BiasPullDown:
		return gpiocdev.WithPullDown
	default:
		return gpiocdev.WithBiasDisabled
	}
}
