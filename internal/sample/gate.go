// Package sample contains pure rate-limiting logic for sensor reads.
// This package has NO external dependencies (no GPIO, HTTP, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package sample

import "time"

// Gate enforces a minimum interval between sensor transactions. The
// DHT22 needs about 2 seconds between reads; polling faster returns
// stale data or nothing at all.
type Gate struct {
	min  time.Duration
	last time.Time
}

// NewGate creates a Gate with the given minimum interval. An interval
// of zero or less disables gating (every Allow succeeds).
func NewGate(min time.Duration) *Gate {
	return &Gate{min: min}
}

// Allow reports whether a fresh read may run at the given time, and if
// so records it. The first call always succeeds.
func (g *Gate) Allow(now time.Time) bool {
	if g.min > 0 && !g.last.IsZero() && now.Sub(g.last) < g.min {
		return false
	}
	g.last = now
	return true
}

// Last returns the time of the most recent allowed read, or the zero
// time if none has run yet.
func (g *Gate) Last() time.Time {
	return g.last
}
