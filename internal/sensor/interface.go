// Package sensor implements the measurement back-ends of a sensor node:
// temperature/humidity, barometric pressure, light level and the battery
// analog channel.
package sensor

import (
	"context"
	"time"
)

// Climate is a combined temperature and humidity reading
type Climate struct {
	Temperature float64 // °C
	Humidity    float64 // %RH
}

// Barometric is a pressure reading with the sensor's own temperature
type Barometric struct {
	Temperature float64 // °C
	Pressure    float64 // Pa
}

// RetryPolicy bounds how often a back-end read is attempted per cycle
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// ClimateSensor is one temperature/humidity back-end variant
type ClimateSensor interface {
	Name() string
	// Read performs a single acquisition attempt.
	Read(ctx context.Context) (Climate, error)
	// RetryPolicy returns how the caller should retry failed attempts.
	RetryPolicy() RetryPolicy
}

// Barometer is an optional pressure back-end
type Barometer interface {
	Name() string
	Begin(ctx context.Context) error
	Read(ctx context.Context) (Barometric, error)
	Halt() error
}

// LightSensor is an ambient light back-end reporting lux
type LightSensor interface {
	Name() string
	Begin(ctx context.Context) error
	Read(ctx context.Context) (float64, error)
	Halt() error
}

// AnalogReader reads a raw code from the battery analog channel
type AnalogReader interface {
	Name() string
	ReadRaw(ctx context.Context) (int, error)
}
