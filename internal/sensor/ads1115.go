package sensor

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/sensord/internal/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

const (
	DefaultADS1115Address = 0x48

	ads1115SampleRate = 128 * physic.Hertz
)

var ads1115Channels = []ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// ADS1115Config selects the single-ended channel wired to the battery divider
type ADS1115Config struct {
	Address    byte
	Channel    int
	MaxVoltage float64 // full scale range in volts
}

// ADS1115 is an AnalogReader over a TI ADS1115 ADC
type ADS1115 struct {
	cfg ADS1115Config
	mu  sync.Mutex
	pin ads1x15.PinADC
}

// NewADS1115 opens the ADC and configures the channel.
func NewADS1115(b i2c.Bus, cfg ADS1115Config) (*ADS1115, error) {
	errFactory := errors.New()

	if cfg.Channel < 0 || cfg.Channel >= len(ads1115Channels) {
		return nil, errFactory.WithData(ErrInvalidChannel, cfg.Channel)
	}

	opts := ads1x15.DefaultOpts
	opts.I2cAddress = uint16(cfg.Address)

	adc, err := ads1x15.NewADS1115(b, &opts)
	if err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	maxVoltage := physic.ElectricPotential(cfg.MaxVoltage * float64(physic.Volt))
	pin, err := adc.PinForChannel(ads1115Channels[cfg.Channel], maxVoltage, ads1115SampleRate, ads1x15.SaveEnergy)
	if err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	return &ADS1115{cfg: cfg, pin: pin}, nil
}

func (a *ADS1115) Name() string {
	return fmt.Sprintf("ads1115:%d", a.cfg.Channel)
}

// ReadRaw returns the signed conversion result.
func (a *ADS1115) ReadRaw(ctx context.Context) (int, error) {
	errFactory := errors.New()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, errFactory.Wrap(errors.ErrCanceled, err)
	}

	sample, err := a.pin.Read()
	if err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}

	return int(sample.Raw), nil
}

// Halt releases the channel.
func (a *ADS1115) Halt() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.pin.Halt(); err != nil {
		return errors.New().Wrap(ErrHaltFailed, err)
	}

	return nil
}
