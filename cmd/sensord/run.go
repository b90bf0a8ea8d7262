package main

import (
	"context"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/sensord/internal/battery"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/pid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sample the sensors on the configured schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
}

func (a *app) run(ctx context.Context) error {
	errFactory := errors.New()

	pidPath := pid.DefaultPath()
	if err := pid.Write(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(pidPath); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, err := openNode(a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to halt sensors")
		}
	}()

	if err := n.provider.Begin(ctx); err != nil {
		if a.cfg.Strict {
			return errFactory.Wrap(errors.ErrInitApp, err)
		}
		logger.Warn().Err(err).Msg("Sensor initialization failed, running degraded")
	}

	monitor, err := battery.New(a.cfg.BatteryConfig())
	if err != nil {
		return err
	}

	log := logger.Default().With("cycle")
	c := &cycle{
		provider:    n.provider,
		monitor:     monitor,
		reportEvery: a.cfg.ReportEvery,
		log:         log,
	}

	cronLog := cronLogger{log: logger.Default().With("cron")}
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := scheduler.AddFunc(a.cfg.Schedule, func() { c.run(ctx) }); err != nil {
		return errFactory.Wrap(errors.ErrSchedule, err)
	}

	logger.Info().
		Str("schedule", a.cfg.Schedule).
		Str("variant", a.cfg.Climate.Variant).
		Msg("Starting sensord")

	c.run(ctx)
	scheduler.Start()

	<-ctx.Done()
	logger.Info().Msg("Received termination signal.")

	// Wait for a running cycle to observe the cancellation
	<-scheduler.Stop().Done()
	logger.Info().Msg("Exiting...")

	return nil
}

// cronLogger adapts a Logger to cron.Logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
