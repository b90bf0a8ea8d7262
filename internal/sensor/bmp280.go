package sensor

import (
	"context"
	"sync"

	"codeberg.org/mutker/sensord/internal/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

const DefaultBMP280Address = 0x76

// BMP280 reads temperature and pressure through the periph.io bmxx80 driver
type BMP280 struct {
	bus  i2c.Bus
	addr uint16
	opts bmxx80.Opts
	mu   sync.Mutex
	dev  *bmxx80.Dev
}

// NewBMP280 creates the back-end. The device is probed in Begin.
func NewBMP280(b i2c.Bus, addr byte) *BMP280 {
	return &BMP280{
		bus:  b,
		addr: uint16(addr),
		opts: bmxx80.DefaultOpts,
	}
}

func (s *BMP280) Name() string {
	return "bmp280"
}

func (s *BMP280) Begin(_ context.Context) error {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	dev, err := bmxx80.NewI2C(s.bus, s.addr, &s.opts)
	if err != nil {
		return errFactory.Wrap(ErrInitFailed, err)
	}
	s.dev = dev

	return nil
}

func (s *BMP280) Read(ctx context.Context) (Barometric, error) {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return Barometric{}, errFactory.WithData(ErrNotStarted, s.Name())
	}

	if err := ctx.Err(); err != nil {
		return Barometric{}, errFactory.Wrap(errors.ErrCanceled, err)
	}

	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return Barometric{}, errFactory.Wrap(ErrReadFailed, err)
	}

	return ConvertEnv(env), nil
}

func (s *BMP280) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return nil
	}

	err := s.dev.Halt()
	s.dev = nil
	if err != nil {
		return errors.New().Wrap(ErrHaltFailed, err)
	}

	return nil
}

// ConvertEnv converts periph units to °C and Pa
func ConvertEnv(env physic.Env) Barometric {
	return Barometric{
		Temperature: env.Temperature.Celsius(),
		Pressure:    float64(env.Pressure) / float64(physic.Pascal),
	}
}
