package main

import (
	"os"

	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
)

// Set at build time via -ldflags "-X main.version=1.2.3"
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("sensord failed")
		} else {
			logger.Error().Err(err).Msg("sensord failed")
		}
		os.Exit(1)
	}
}
