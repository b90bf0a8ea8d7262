package sensor

import (
	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/benbjohnson/clock"
)

// Variant names a temperature/humidity back-end
type Variant string

const (
	// VariantSHT3x is the polled single-shot sensor retried on bus errors
	VariantSHT3x Variant = "sht3x"
	// VariantSHT21 is the hold-master sensor read once per quantity
	VariantSHT21 Variant = "sht21"
)

// IsValid returns whether the variant is known
func (v Variant) IsValid() bool {
	switch v {
	case VariantSHT3x, VariantSHT21:
		return true
	default:
		return false
	}
}

func (v Variant) String() string {
	return string(v)
}

// ClimateConfig holds the settings of both variants; only the selected one is used
type ClimateConfig struct {
	Variant Variant
	SHT3x   SHT3xConfig
	SHT21   SHT21Config
}

// NewClimateSensor builds the selected temperature/humidity back-end
func NewClimateSensor(b bus.I2C, cfg ClimateConfig, clk clock.Clock) (ClimateSensor, error) {
	switch cfg.Variant {
	case VariantSHT3x:
		return NewSHT3x(b, cfg.SHT3x, clk), nil
	case VariantSHT21:
		return NewSHT21(b, cfg.SHT21, clk), nil
	default:
		return nil, errors.New().WithData(ErrInvalidVariant, string(cfg.Variant))
	}
}
