// Package measurement runs acquisition cycles over the sensor back-ends
// and publishes the resulting snapshot.
package measurement

import (
	"context"
	"sync"

	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/sensor"
	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
)

// Backends are the hardware back-ends driven by a Provider.
// Barometer may be nil when no pressure sensor is fitted.
type Backends struct {
	Analog    sensor.AnalogReader
	Climate   sensor.ClimateSensor
	Barometer sensor.Barometer
	Light     sensor.LightSensor
}

// Option configures a Provider
type Option func(*Provider)

// WithClock sets the clock used for timestamps and retry backoff
func WithClock(clk clock.Clock) Option {
	return func(p *Provider) {
		if clk != nil {
			p.clock = clk
		}
	}
}

// WithLogger sets the logger for per-attempt diagnostics
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// Provider acquires one snapshot per cycle. A cycle only replaces the
// published snapshot when every step succeeded.
type Provider struct {
	cfg      Config
	backends Backends
	clock    clock.Clock
	log      logger.Logger

	cycleMu sync.Mutex

	mu      sync.RWMutex
	current Snapshot
}

// New creates a Provider. Analog, Climate and Light back-ends are required.
func New(cfg Config, backends Backends, opts ...Option) (*Provider, error) {
	errFactory := errors.New()

	switch {
	case backends.Analog == nil:
		return nil, errFactory.WithData(ErrMissingBackend, "analog")
	case backends.Climate == nil:
		return nil, errFactory.WithData(ErrMissingBackend, "climate")
	case backends.Light == nil:
		return nil, errFactory.WithData(ErrMissingBackend, "light")
	}

	p := &Provider{
		cfg:      cfg,
		backends: backends,
		clock:    clock.New(),
		log:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Begin initializes the light sensor and, if fitted, the barometer.
// All failures are reported together.
func (p *Provider) Begin(ctx context.Context) error {
	errFactory := errors.New()
	var errs error

	if err := p.backends.Light.Begin(ctx); err != nil {
		errs = multierr.Append(errs, errFactory.Wrap(ErrBeginFailed, err).
			WithMessage("Failed to initialize "+p.backends.Light.Name()))
	}

	if p.backends.Barometer != nil {
		if err := p.backends.Barometer.Begin(ctx); err != nil {
			errs = multierr.Append(errs, errFactory.Wrap(ErrBeginFailed, err).
				WithMessage("Failed to initialize "+p.backends.Barometer.Name()))
		}
	}

	return errs
}

// DoMeasurements runs one acquisition cycle. The cycle stops at the first
// failing step and leaves the published snapshot untouched. Partial
// results of a failed cycle, the battery voltage included, are discarded.
func (p *Provider) DoMeasurements(ctx context.Context) error {
	errFactory := errors.New()

	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	next := Snapshot{Timestamp: p.clock.Now()}

	raw, err := p.backends.Analog.ReadRaw(ctx)
	if err != nil {
		return errFactory.Wrap(ErrAnalog, err)
	}
	next.VoltageRaw = raw
	next.Voltage = p.AnalogToVoltage(raw)

	climate, err := p.readClimate(ctx)
	if err != nil {
		return errFactory.Wrap(ErrClimate, err)
	}
	next.Temperature = climate.Temperature
	next.Humidity = climate.Humidity

	if p.backends.Barometer != nil {
		baro, err := p.backends.Barometer.Read(ctx)
		if err != nil {
			return errFactory.Wrap(ErrBarometer, err)
		}
		next.BMPTemperature = baro.Temperature
		next.Pressure = baro.Pressure
	}

	lux, err := p.backends.Light.Read(ctx)
	if err != nil {
		return errFactory.Wrap(ErrLight, err)
	}
	next.LightLevel = int(lux)

	p.mu.Lock()
	next.ReportIn = p.current.ReportIn
	p.current = next
	p.mu.Unlock()

	return nil
}

// readClimate applies the back-end retry policy. Only bus level failures
// are retried.
func (p *Provider) readClimate(ctx context.Context) (sensor.Climate, error) {
	policy := p.backends.Climate.RetryPolicy()
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		climate, err := p.backends.Climate.Read(ctx)
		if err == nil {
			return climate, nil
		}

		p.log.Debug().
			Str("sensor", p.backends.Climate.Name()).
			Int("attempt", attempt).
			Int("attempts", attempts).
			Err(err).
			Msg("Climate read failed")

		if attempt >= attempts || !sensor.IsRetryable(err) {
			return sensor.Climate{}, err
		}

		if err := sensor.Wait(ctx, p.clock, policy.Backoff); err != nil {
			return sensor.Climate{}, err
		}
	}
}

// CurrentMeasurements returns the last published snapshot without touching hardware
func (p *Provider) CurrentMeasurements() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.current
}

// SetReportIn stores the caller-owned countdown alongside the snapshot
func (p *Provider) SetReportIn(n uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current.ReportIn = n
}

// AnalogToVoltage converts a raw analog code to volts
func (p *Provider) AnalogToVoltage(raw int) float64 {
	return float64(raw) * p.cfg.Coefficient
}

// Halt powers down the light sensor and the barometer
func (p *Provider) Halt() error {
	errFactory := errors.New()
	var errs error

	if err := p.backends.Light.Halt(); err != nil {
		errs = multierr.Append(errs, errFactory.Wrap(ErrHalt, err))
	}

	if p.backends.Barometer != nil {
		if err := p.backends.Barometer.Halt(); err != nil {
			errs = multierr.Append(errs, errFactory.Wrap(ErrHalt, err))
		}
	}

	return errs
}
