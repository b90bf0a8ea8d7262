package main

import (
	"fmt"

	"codeberg.org/mutker/sensord/internal/battery"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"github.com/spf13/cobra"
)

func newMeasureCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "measure",
		Short: "Run a single measurement cycle and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			errFactory := errors.New()
			ctx := cmd.Context()

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
				logger.Warn().Err(err).Msg("Sensor initialization failed")
			}

			if err := n.provider.DoMeasurements(ctx); err != nil {
				return errFactory.Wrap(errors.ErrMeasure, err)
			}

			monitor, err := battery.New(a.cfg.BatteryConfig())
			if err != nil {
				return err
			}

			snap := n.provider.CurrentMeasurements()
			monitor.CheckBattery(snap.Voltage)

			fmt.Fprintln(cmd.OutOrStdout(), snap.String())
			fmt.Fprintf(cmd.OutOrStdout(), "battery: %s\n", monitor.State())

			return nil
		},
	}
}
