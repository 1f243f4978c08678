// Package dht22 implements the single-wire protocol of the DHT22/AM2302
// humidity and temperature sensor on top of a GPIO line.
//
// A read transaction drives a start signal, hands the line to the sensor,
// measures the 2 acknowledgement pulses and the 40 data bit pulses with a
// busy poll, and decodes the result into a 5-byte frame. The timing is
// microsecond-scale, so the transaction runs on a locked OS thread with
// GC disabled and, where the platform allows, realtime priority.
package dht22

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sweeney/dht22-sensor/internal/gpio"
)

// pulseTimeout bounds every individual pulse wait. A pulse that reaches
// it is treated as a failed read.
const pulseTimeout = 200 * time.Microsecond

// Acknowledgement pulses are nominally 80 us; the sensor is accepted
// anywhere in this window.
const (
	ackMin = 70 * time.Microsecond
	ackMax = 90 * time.Microsecond
)

// Fixed delays of the start sequence.
const (
	busIdleDelay = 1 * time.Millisecond
	// Datasheet says 1-10 ms; the low end plus margin keeps reads fast.
	startSignalDelay = 1100 * time.Microsecond
)

// Reading is one decoded sensor measurement.
type Reading struct {
	Temperature float64 // degrees Celsius
	Humidity    float64 // percent relative humidity
	Time        time.Time
}

// Sensor reads a DHT22 wired to one GPIO line. At most one transaction
// runs at a time; concurrent calls are serialized internally.
type Sensor struct {
	mu   sync.Mutex
	chip gpio.Chip
	pin  int

	// injectable for tests
	now     func() time.Time
	measure func(line gpio.Line, level gpio.Level, timeout time.Duration) (time.Duration, error)
	sleep   func(d time.Duration)
}

// NewSensor creates a Sensor for the line at the given offset on chip.
// The chip stays open for the life of the sensor; the line is claimed
// per transaction.
func NewSensor(chip gpio.Chip, pin int) *Sensor {
	s := &Sensor{
		chip:  chip,
		pin:   pin,
		now:   time.Now,
		sleep: time.Sleep,
	}
	s.measure = func(line gpio.Line, level gpio.Level, timeout time.Duration) (time.Duration, error) {
		return measurePulse(line, level, timeout, s.now)
	}
	return s
}

// ReadTemperature performs one full transaction and returns the
// temperature in degrees Celsius.
func (s *Sensor) ReadTemperature() (float64, error) {
	frame, err := s.readFrame()
	if err != nil {
		return 0, err
	}
	return DecodeTemperature(frame), nil
}

// ReadHumidity performs one full transaction and returns the relative
// humidity in percent.
func (s *Sensor) ReadHumidity() (float64, error) {
	frame, err := s.readFrame()
	if err != nil {
		return 0, err
	}
	return DecodeHumidity(frame), nil
}

// Read performs one full transaction and returns both values.
func (s *Sensor) Read() (Reading, error) {
	frame, err := s.readFrame()
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		Temperature: DecodeTemperature(frame),
		Humidity:    DecodeHumidity(frame),
		Time:        s.now(),
	}, nil
}

// readFrame runs the transaction on a dedicated OS thread. The pulse
// measurement loop cannot tolerate preemption: a scheduling gap of tens
// of microseconds corrupts the timings, so the worker locks its thread,
// asks for the highest priority the platform grants, and turns the GC
// off for the duration. Best effort only; a failed read stays possible
// and is surfaced to the caller, never retried here.
func (s *Sensor) readFrame() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type result struct {
		frame Frame
		err   error
	}
	done := make(chan result, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		restore := maxPriority()
		defer restore()

		gcPercent := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(gcPercent)

		frame, err := s.transaction()
		done <- result{frame, err}
	}()

	r := <-done
	return r.frame, r.err
}

// transaction executes the wire protocol once.
func (s *Sensor) transaction() (Frame, error) {
	// Claim the line as output high with pull-up: the sensor only ever
	// drives the line low, the pull-up provides the high state.
	line, err := s.chip.RequestLine(s.pin, gpio.High, gpio.BiasPullUp)
	if err != nil {
		return Frame{}, fmt.Errorf("claim pin %d: %w", s.pin, err)
	}
	defer line.Close()

	// Hold the bus idle high so the start signal edge is unambiguous.
	s.sleep(busIdleDelay)

	// Start signal: pull low.
	if err := line.Write(gpio.Low); err != nil {
		return Frame{}, err
	}
	s.sleep(startSignalDelay)

	// Drive high before switching to input so the first measurement does
	// not see our own low output still on the line.
	if err := line.Write(gpio.High); err != nil {
		return Frame{}, err
	}
	if err := line.SetInput(gpio.BiasPullUp); err != nil {
		return Frame{}, err
	}

	// The sensor should leave the line high for 20-40 us before
	// responding. Only the transition matters; the length is not checked.
	if _, err := s.measure(line, gpio.High, pulseTimeout); err != nil {
		return Frame{}, err
	}

	// Acknowledgement: ~80 us low, then ~80 us high.
	low, err := s.measure(line, gpio.Low, pulseTimeout)
	if err != nil {
		return Frame{}, err
	}
	if low < ackMin || low > ackMax {
		return Frame{}, fmt.Errorf("%w: ack low %v", ErrTimeout, low)
	}
	high, err := s.measure(line, gpio.High, pulseTimeout)
	if err != nil {
		return Frame{}, err
	}
	if high < ackMin || high > ackMax {
		return Frame{}, fmt.Errorf("%w: ack high %v", ErrTimeout, high)
	}

	// Data phase. Each bit is a ~54 us low followed by a high whose
	// length encodes the value. Record all 80 durations first and decide
	// afterwards; validation inside the loop would cost time exactly
	// where the timing is tightest.
	var starts, pulses [frameBits]time.Duration
	for i := 0; i < frameBits; i++ {
		starts[i], err = s.measure(line, gpio.Low, pulseTimeout)
		if err != nil {
			return Frame{}, err
		}
		pulses[i], err = s.measure(line, gpio.High, pulseTimeout)
		if err != nil {
			return Frame{}, err
		}
	}

	// Validate the recorded durations and pack bits MSB-first. A high
	// pulse longer than its preceding low pulse is a 1: comparing the
	// pair is self-calibrating and tolerates clock drift better than a
	// fixed threshold.
	var frame Frame
	for i := 0; i < frameBits; i++ {
		if starts[i] >= pulseTimeout || pulses[i] >= pulseTimeout {
			return Frame{}, fmt.Errorf("%w: bit %d", ErrTimeout, i)
		}
		if pulses[i] > starts[i] {
			frame[i/8] |= 1 << (7 - i%8)
		}
	}

	if !frame.ChecksumOK() {
		return Frame{}, fmt.Errorf("%w: frame % x", ErrChecksum, frame[:])
	}

	return frame, nil
}
