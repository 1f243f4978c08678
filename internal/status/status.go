// Package status provides a thread-safe status tracker for the
// dht22-sensor daemon. It is read by the HTTP handlers.
package status

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/dht22-sensor/internal/dht22"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip          string
	Pin           int
	MinIntervalMs int64
	Broker        string
	HTTPAddr      string
}

// ReadCounts tracks read outcomes since startup.
type ReadCounts struct {
	OK       int
	Timeout  int
	Checksum int
	Other    int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Last          *dht22.Reading // nil until the first successful read
	LastError     string         // empty if the most recent read succeeded
	Counts        ReadCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordReading stores a successful reading and bumps the OK count.
func (t *Tracker) RecordReading(r dht22.Reading) {
	t.mu.Lock()
	reading := r
	t.snap.Last = &reading
	t.snap.LastError = ""
	t.snap.Counts.OK++
	t.mu.Unlock()
}

// RecordError classifies and counts a failed read. The last successful
// reading is kept so the page still shows something useful.
func (t *Tracker) RecordError(err error) {
	t.mu.Lock()
	t.snap.LastError = err.Error()
	switch {
	case errors.Is(err, dht22.ErrTimeout):
		t.snap.Counts.Timeout++
	case errors.Is(err, dht22.ErrChecksum):
		t.snap.Counts.Checksum++
	default:
		t.snap.Counts.Other++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
