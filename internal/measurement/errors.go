package measurement

import "codeberg.org/mutker/sensord/internal/errors"

const (
	// Construction Errors
	ErrMissingBackend = errors.ErrorCode("measurement_missing_backend")

	// Cycle Errors
	ErrBeginFailed = errors.ErrorCode("measurement_begin_failed")
	ErrAnalog      = errors.ErrorCode("measurement_analog_failed")
	ErrClimate     = errors.ErrorCode("measurement_climate_failed")
	ErrBarometer   = errors.ErrorCode("measurement_barometer_failed")
	ErrLight       = errors.ErrorCode("measurement_light_failed")
	ErrHalt        = errors.ErrorCode("measurement_halt_failed")
)
