package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sweeney/dht22-sensor/internal/dht22"
	"github.com/sweeney/dht22-sensor/internal/mqtt"
	"github.com/sweeney/dht22-sensor/internal/sample"
	"github.com/sweeney/dht22-sensor/internal/status"
	"github.com/sweeney/dht22-sensor/internal/web"
)

// fakeSensor stands in for the hardware driver.
type fakeSensor struct {
	readings []dht22.Reading
	errs     []error
	i        int
}

func (f *fakeSensor) Read() (dht22.Reading, error) {
	defer func() { f.i++ }()
	if f.i < len(f.errs) && f.errs[f.i] != nil {
		return dht22.Reading{}, f.errs[f.i]
	}
	return f.readings[f.i], nil
}

// TestIntegrationServeFlow exercises the serve-mode pipeline with fakes:
// sensor read through the rate gate into the tracker and publisher, then
// out through the HTTP JSON endpoint.
func TestIntegrationServeFlow(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	readTime := start.Add(5 * time.Second)

	sensor := &fakeSensor{
		readings: []dht22.Reading{
			{Temperature: 26.1, Humidity: 65.2, Time: readTime},
			{Temperature: 26.2, Humidity: 65.0, Time: readTime.Add(3 * time.Second)},
		},
		errs: []error{nil, dht22.ErrChecksum},
	}
	publisher := mqtt.NewFakePublisher()
	publisher.Connected = true
	gate := sample.NewGate(2 * time.Second)
	tracker := status.NewTracker(start, status.Config{
		Chip:          "gpiochip0",
		Pin:           16,
		MinIntervalMs: 2000,
		Broker:        "tcp://192.168.1.200:1883",
		HTTPAddr:      ":8080",
	})

	now := readTime
	refresh := func() {
		tracker.SetMQTTConnected(publisher.IsConnected())
		if !gate.Allow(now) {
			return
		}
		reading, err := sensor.Read()
		if err != nil {
			tracker.RecordError(err)
			return
		}
		tracker.RecordReading(reading)
		publisher.Publish(reading)
	}

	srv := web.New(":0", tracker, refresh)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// First request triggers a read and a publish.
	var sj status.StatusJSON
	getJSON(t, ts.URL+"/index.json", &sj)
	if sj.Status.Reading == nil {
		t.Fatal("expected a reading after first request")
	}
	if sj.Status.Reading.TemperatureC != 26.1 {
		t.Errorf("temperature_c: got %v, want 26.1", sj.Status.Reading.TemperatureC)
	}
	if len(publisher.Readings) != 1 {
		t.Fatalf("published: got %d, want 1", len(publisher.Readings))
	}

	// Second request inside the gate window serves the cached reading.
	now = readTime.Add(time.Second)
	getJSON(t, ts.URL+"/index.json", &sj)
	if sensor.i != 1 {
		t.Errorf("sensor reads: got %d, want 1 (gated)", sensor.i)
	}

	// Past the window the next read runs and fails with a checksum
	// error; the previous reading must survive.
	now = readTime.Add(3 * time.Second)
	getJSON(t, ts.URL+"/index.json", &sj)
	if sj.Status.Reading == nil {
		t.Fatal("reading should survive a failed refresh")
	}
	if sj.Status.Reading.TemperatureC != 26.1 {
		t.Errorf("temperature_c after failure: got %v, want 26.1", sj.Status.Reading.TemperatureC)
	}
	if sj.Status.Counts.Checksum != 1 {
		t.Errorf("checksum count: got %d, want 1", sj.Status.Counts.Checksum)
	}
	if sj.Status.LastError == "" {
		t.Error("last_error should be set after a failed refresh")
	}
	if len(publisher.Readings) != 1 {
		t.Errorf("failed read must not publish, got %d", len(publisher.Readings))
	}
}

func getJSON(t *testing.T, url string, v interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
