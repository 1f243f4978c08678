// Command dht22-sensor reads temperature and humidity from a DHT22 sensor
// on a GPIO pin, printing the result or serving it over HTTP/MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sweeney/dht22-sensor/internal/dht22"
	"github.com/sweeney/dht22-sensor/internal/gpio"
	"github.com/sweeney/dht22-sensor/internal/mqtt"
	"github.com/sweeney/dht22-sensor/internal/sample"
	"github.com/sweeney/dht22-sensor/internal/status"
	"github.com/sweeney/dht22-sensor/internal/web"
)

const usage = `usage: dht22-sensor [flags] <command>

commands:
  temp    read and print the temperature in °C
  humid   read and print the relative humidity in %
  read    read and print both (publishes to MQTT if -broker is set)
  serve   run as a daemon with an HTTP status page
`

func main() {
	chipName := flag.String("chip", gpio.DefaultChip, "GPIO character device name")
	pin := flag.Int("pin", gpio.DefaultPin, "BCM pin number of the sensor data line")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable publishing)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (serve mode)")
	minInterval := flag.Duration("min-interval", 2*time.Second, "Minimum interval between sensor reads (serve mode)")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cmd, *chipName, *pin, *broker, *httpAddr, *minInterval); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cmd, chipName string, pin int, broker, httpAddr string, minInterval time.Duration) error {
	chip, err := gpio.NewRealChip(chipName)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	sensor := dht22.NewSensor(chip, pin)

	switch cmd {
	case "temp":
		t, err := sensor.ReadTemperature()
		if err != nil {
			return err
		}
		fmt.Println(formatTemperature(t))
		return nil

	case "humid":
		h, err := sensor.ReadHumidity()
		if err != nil {
			return err
		}
		fmt.Println(formatHumidity(h))
		return nil

	case "read":
		reading, err := sensor.Read()
		if err != nil {
			return err
		}
		fmt.Println(formatTemperature(reading.Temperature))
		fmt.Println(formatHumidity(reading.Humidity))
		if broker != "" {
			publisher, err := mqtt.NewRealPublisher(broker)
			if err != nil {
				return fmt.Errorf("init mqtt: %w", err)
			}
			defer publisher.Close()
			if err := publisher.Publish(reading); err != nil {
				return fmt.Errorf("publish reading: %w", err)
			}
		}
		return nil

	case "serve":
		return serve(sensor, chipName, pin, broker, httpAddr, minInterval)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func serve(sensor *dht22.Sensor, chipName string, pin int, broker, httpAddr string, minInterval time.Duration) error {
	var publisher mqtt.Publisher
	var connStatus mqtt.ConnectionStatus
	if broker != "" {
		p, err := mqtt.NewRealPublisher(broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher = p
		connStatus = p
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:          chipName,
		Pin:           pin,
		MinIntervalMs: minInterval.Milliseconds(),
		Broker:        broker,
		HTTPAddr:      httpAddr,
	})

	gate := sample.NewGate(minInterval)
	refresh := makeSampler(sensor, gate, tracker, publisher, connStatus, time.Now)

	srv := web.New(httpAddr, tracker, refresh)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	log.Printf("started: chip=%s pin=%d min-interval=%v http=%s broker=%s",
		chipName, pin, minInterval, httpAddr, broker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Printf("received %v, shutting down", s)
	return nil
}

// reader is the sensor surface the sampler needs; satisfied by
// *dht22.Sensor and by fakes in tests.
type reader interface {
	Read() (dht22.Reading, error)
}

// makeSampler returns the refresh hook run before the status page is
// rendered. The gate keeps the sensor from being hammered on every page
// load; failed reads are counted but never retried here.
func makeSampler(r reader, gate *sample.Gate, tracker *status.Tracker, publisher mqtt.Publisher, connStatus mqtt.ConnectionStatus, now func() time.Time) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()

		if connStatus != nil {
			tracker.SetMQTTConnected(connStatus.IsConnected())
		}

		if !gate.Allow(now()) {
			return
		}

		reading, err := r.Read()
		if err != nil {
			log.Printf("read error: %v", err)
			tracker.RecordError(err)
			return
		}
		tracker.RecordReading(reading)

		if publisher != nil {
			if err := publisher.Publish(reading); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}
	}
}

func formatTemperature(t float64) string {
	return fmt.Sprintf("Temperature: %.1f°C", t)
}

func formatHumidity(h float64) string {
	return fmt.Sprintf("Humidity: %.1f%%", h)
}
