package main

import (
	"codeberg.org/mutker/sensord/internal/config"
	"codeberg.org/mutker/sensord/internal/logger"
	"github.com/spf13/cobra"
)

// app holds state shared by the sub-commands
type app struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sensord",
		Short:         "sensord samples climate, pressure, light and battery sensors on an I2C bus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init(cmd)
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newMeasureCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		return err
	}
	logger.Debug().
		Str("schedule", cfg.Schedule).
		Str("variant", cfg.Climate.Variant).
		Bool("barometer", cfg.Barometer.Enabled).
		Msg("Config loaded")

	return nil
}
