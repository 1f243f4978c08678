package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/dht22-sensor/internal/dht22"
	"github.com/sweeney/dht22-sensor/internal/status"
)

func newTestServer(t *testing.T, refresh func()) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Chip:          "gpiochip0",
		Pin:           16,
		MinIntervalMs: 2000,
		Broker:        "tcp://192.168.1.200:1883",
		HTTPAddr:      ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr, refresh)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t, nil)
	tr.RecordReading(dht22.Reading{
		Temperature: 26.1,
		Humidity:    65.2,
		Time:        time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
	})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Reading == nil {
		t.Fatal("expected a reading")
	}
	if sj.Status.Reading.TemperatureC != 26.1 {
		t.Errorf("temperature_c: got %v, want 26.1", sj.Status.Reading.TemperatureC)
	}
	if sj.Status.Reading.HumidityPct != 65.2 {
		t.Errorf("humidity_pct: got %v, want 65.2", sj.Status.Reading.HumidityPct)
	}
	if sj.Status.MQTT == nil || !sj.Status.MQTT.Connected {
		t.Error("expected MQTT connected")
	}
	if sj.Status.Config.Pin != 16 {
		t.Errorf("config pin: got %d, want 16", sj.Status.Config.Pin)
	}
}

func TestIndexPage(t *testing.T) {
	ts, tr := newTestServer(t, nil)
	tr.RecordReading(dht22.Reading{
		Temperature: 26.1,
		Humidity:    65.2,
		Time:        time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
	})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	if !strings.Contains(html, "26.1") {
		t.Error("page missing temperature value")
	}
	if !strings.Contains(html, "65.2") {
		t.Error("page missing humidity value")
	}
	if !strings.Contains(html, "gpiochip0") {
		t.Error("page missing chip name")
	}
}

func TestIndexPageNoReading(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "no reading yet") {
		t.Error("page should say no reading yet")
	}
}

func TestRefreshHookRuns(t *testing.T) {
	calls := 0
	ts, _ := newTestServer(t, func() { calls++ })

	for _, path := range []string{"/", "/index.html", "/index.json"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if calls != 3 {
		t.Errorf("refresh calls: got %d, want 3", calls)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	calls := 0
	ts, _ := newTestServer(t, func() { calls++ })

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
	if calls != 0 {
		t.Error("refresh should not run for unknown paths")
	}
}
