package main

import (
	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/config"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/measurement"
	"codeberg.org/mutker/sensord/internal/sensor"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// node is the opened hardware of one sensor node
type node struct {
	bus      i2c.BusCloser
	adc      *sensor.ADS1115
	provider *measurement.Provider
}

// openNode initializes the host drivers, opens the bus and builds every
// configured back-end. Back-ends are not started.
func openNode(cfg *config.Config) (*node, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}

	b, err := i2creg.Open(cfg.Bus.Name)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrOpenBus, err)
	}
	logger.Debug().Str("bus", b.String()).Msg("I2C bus opened")

	n := &node{bus: b}
	periph := bus.NewPeriph(b)

	n.adc, err = sensor.NewADS1115(b, cfg.AnalogConfig())
	if err != nil {
		return nil, multierr.Append(err, n.Close())
	}

	climate, err := sensor.NewClimateSensor(periph, cfg.ClimateConfig(), nil)
	if err != nil {
		return nil, multierr.Append(err, n.Close())
	}

	backends := measurement.Backends{
		Analog:  n.adc,
		Climate: climate,
		Light:   sensor.NewBH1750(periph, cfg.LightConfig(), nil),
	}
	if cfg.Barometer.Enabled {
		backends.Barometer = sensor.NewBMP280(b, byte(cfg.Barometer.Address))
	}

	n.provider, err = measurement.New(cfg.MeasurementConfig(), backends,
		measurement.WithLogger(logger.Default().With("measurement")))
	if err != nil {
		return nil, multierr.Append(err, n.Close())
	}

	return n, nil
}

// Close halts the back-ends and releases the bus
func (n *node) Close() error {
	errFactory := errors.New()
	var errs error

	if n.provider != nil {
		errs = multierr.Append(errs, n.provider.Halt())
	}
	if n.adc != nil {
		errs = multierr.Append(errs, n.adc.Halt())
	}
	if err := n.bus.Close(); err != nil {
		errs = multierr.Append(errs, errFactory.Wrap(errors.ErrHaltBus, err))
	}

	if errs != nil {
		return errFactory.Wrap(errors.ErrShutdownFailed, errs)
	}

	return nil
}
