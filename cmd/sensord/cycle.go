package main

import (
	"context"

	"codeberg.org/mutker/sensord/internal/battery"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/measurement"
)

// provider is the part of measurement.Provider a cycle needs
type provider interface {
	DoMeasurements(ctx context.Context) error
	CurrentMeasurements() measurement.Snapshot
	SetReportIn(n uint8)
}

// cycle runs one scheduled measurement and feeds the battery monitor
type cycle struct {
	provider    provider
	monitor     *battery.Monitor
	reportEvery uint8
	log         logger.Logger
}

type cycleResult struct {
	Measured     bool
	BatteryAlert bool
	Reported     bool
}

func (c *cycle) run(ctx context.Context) cycleResult {
	var res cycleResult

	if err := c.provider.DoMeasurements(ctx); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			c.log.ErrorWithCode(appErr).Msg("Measurement cycle failed")
		} else {
			c.log.Error().Err(err).Msg("Measurement cycle failed")
		}
		return res
	}
	res.Measured = true

	snap := c.provider.CurrentMeasurements()

	if c.monitor.CheckBattery(snap.Voltage) {
		res.BatteryAlert = true
		c.log.Warn().
			Float64("voltage", snap.Voltage).
			Int("threshold", c.monitor.Config().TriggerThreshold).
			Msg("Battery low")
	}

	// ReportIn counts cycles down to the next info level report
	if snap.ReportIn == 0 {
		res.Reported = true
		c.log.Info().
			Str("battery", c.monitor.State().String()).
			Msg(snap.String())
		c.provider.SetReportIn(c.reportEvery)
	} else {
		c.log.Debug().Msg(snap.String())
		c.provider.SetReportIn(snap.ReportIn - 1)
	}

	return res
}
