package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Reading       *ReadingJSON `json:"reading,omitempty"`
	LastError     string       `json:"last_error,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          *MQTTStatus  `json:"mqtt,omitempty"`
	Counts        CountsJSON   `json:"read_counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the last reading.
type ReadingJSON struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	Timestamp    string  `json:"timestamp"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of read counts.
type CountsJSON struct {
	OK       int `json:"ok"`
	Timeout  int `json:"timeout"`
	Checksum int `json:"checksum"`
	Other    int `json:"other"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip          string `json:"chip"`
	Pin           int    `json:"pin"`
	MinIntervalMs int64  `json:"min_interval_ms"`
	Broker        string `json:"broker,omitempty"`
	HTTPAddr      string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		LastError:     snap.LastError,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			OK:       snap.Counts.OK,
			Timeout:  snap.Counts.Timeout,
			Checksum: snap.Counts.Checksum,
			Other:    snap.Counts.Other,
		},
		Config: ConfigJSON{
			Chip:          snap.Config.Chip,
			Pin:           snap.Config.Pin,
			MinIntervalMs: snap.Config.MinIntervalMs,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
		},
	}

	if snap.Last != nil {
		inner.Reading = &ReadingJSON{
			TemperatureC: snap.Last.Temperature,
			HumidityPct:  snap.Last.Humidity,
			Timestamp:    snap.Last.Time.UTC().Format(time.RFC3339),
		}
	}
	if snap.Config.Broker != "" {
		inner.MQTT = &MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
