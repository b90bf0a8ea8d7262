package battery

import "codeberg.org/mutker/sensord/internal/errors"

const (
	ErrInvalidThresholds = errors.ErrInvalidThresholds
)
