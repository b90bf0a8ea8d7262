package sensor

import (
	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
)

const (
	// Lifecycle Errors
	ErrInitFailed = errors.ErrorCode("sensor_init_failed")
	ErrNotStarted = errors.ErrorCode("sensor_not_started")
	ErrHaltFailed = errors.ErrorCode("sensor_halt_failed")

	// Read Errors
	ErrReadFailed  = errors.ErrorCode("sensor_read_failed")
	ErrPollTimeout = errors.ErrorCode("sensor_poll_timeout")

	// Configuration Errors
	ErrInvalidVariant = errors.ErrInvalidVariant
	ErrInvalidChannel = errors.ErrorCode("sensor_invalid_channel")
)

// IsRetryable reports whether a failed read may succeed on another attempt.
// Only bus transaction failures and incomplete transfers qualify.
func IsRetryable(err error) bool {
	return errors.HasCode(err, bus.ErrTransaction) || errors.HasCode(err, bus.ErrIncompleteData)
}
