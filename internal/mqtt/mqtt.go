// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/dht22-sensor/internal/dht22"
)

// Topic is the MQTT topic for sensor readings.
const Topic = "home/climate/dht22/reading"

// Publisher publishes readings to MQTT.
type Publisher interface {
	// Publish sends a sensor reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(r dht22.Reading) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Sensor SensorPayload `json:"sensor"`
}

// SensorPayload contains the reading details.
type SensorPayload struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
}

// FormatPayload creates the JSON payload for a reading.
func FormatPayload(r dht22.Reading) ([]byte, error) {
	payload := Payload{
		Sensor: SensorPayload{
			Timestamp:    r.Time.UTC().Format(time.RFC3339),
			TemperatureC: r.Temperature,
			HumidityPct:  r.Humidity,
		},
	}
	return json.Marshal(payload)
}
