package battery

import "codeberg.org/mutker/sensord/internal/errors"

const (
	DefaultTriggerThreshold = 330
	DefaultResetThreshold   = 340
)

// Config holds the hysteresis band in centivolts
type Config struct {
	TriggerThreshold int
	ResetThreshold   int
}

func DefaultConfig() Config {
	return Config{
		TriggerThreshold: DefaultTriggerThreshold,
		ResetThreshold:   DefaultResetThreshold,
	}
}

func (c Config) Validate() error {
	if c.ResetThreshold <= c.TriggerThreshold {
		return errors.New().WithData(ErrInvalidThresholds, struct {
			Trigger int
			Reset   int
		}{
			Trigger: c.TriggerThreshold,
			Reset:   c.ResetThreshold,
		})
	}
	return nil
}
