package dht22

import (
	"time"

	"github.com/sweeney/dht22-sensor/internal/gpio"
)

// measurePulse blocks until the line's level differs from level and
// returns the elapsed time spent at that level. If the elapsed time
// exceeds timeout it stops waiting and returns the elapsed time anyway;
// the caller decides whether that counts as a failure. The line must
// already be in input mode.
//
// This is a deliberate busy poll. Any sleeping primitive has wake-up
// latency far above the microsecond scale of the pulses being measured.
func measurePulse(line gpio.Line, level gpio.Level, timeout time.Duration, now func() time.Time) (time.Duration, error) {
	start := now()
	for {
		v, err := line.Read()
		if err != nil {
			return now().Sub(start), err
		}
		if v != level {
			return now().Sub(start), nil
		}
		if elapsed := now().Sub(start); elapsed > timeout {
			return elapsed, nil
		}
	}
}
