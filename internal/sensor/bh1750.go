package sensor

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/benbjohnson/clock"
)

const (
	DefaultBH1750Address = 0x23

	bh1750PowerDown = 0x00
	bh1750PowerOn   = 0x01
	// One time high resolution mode: 1 lx resolution, device powers down
	// after the measurement.
	bh1750OneTimeHighRes = 0x20

	bh1750FrameSize = 2
	bh1750LuxFactor = 1.2
)

// BH1750Config configures the light sensor
type BH1750Config struct {
	Address          byte
	MeasurementDelay time.Duration
}

// DefaultBH1750Config returns the datasheet's maximum high resolution
// conversion time
func DefaultBH1750Config() BH1750Config {
	return BH1750Config{
		Address:          DefaultBH1750Address,
		MeasurementDelay: 180 * time.Millisecond,
	}
}

// BH1750 is a one-shot ambient light sensor. Each Read triggers a fresh
// conversion, after which the device sleeps again.
type BH1750 struct {
	bus     bus.I2C
	cfg     BH1750Config
	clock   clock.Clock
	mu      sync.Mutex
	started bool
}

// NewBH1750 creates the back-end. A nil clock uses the wall clock.
func NewBH1750(b bus.I2C, cfg BH1750Config, clk clock.Clock) *BH1750 {
	return &BH1750{bus: b, cfg: cfg, clock: orRealClock(clk)}
}

func (s *BH1750) Name() string {
	return "bh1750"
}

// Begin powers the sensor on and selects one time high resolution mode.
func (s *BH1750) Begin(ctx context.Context) error {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.bus.OpenHandle(s.cfg.Address)
	if err != nil {
		return errFactory.Wrap(ErrInitFailed, err)
	}
	defer h.Close()

	if err := h.Write(ctx, []byte{bh1750PowerOn}); err != nil {
		return errFactory.Wrap(ErrInitFailed, err)
	}
	if err := h.Write(ctx, []byte{bh1750OneTimeHighRes}); err != nil {
		return errFactory.Wrap(ErrInitFailed, err)
	}

	s.started = true

	return nil
}

// Read returns the light level in lux.
func (s *BH1750) Read(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return 0, errFactory.WithData(ErrNotStarted, s.Name())
	}

	h, err := s.bus.OpenHandle(s.cfg.Address)
	if err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}
	defer h.Close()

	if err := h.Write(ctx, []byte{bh1750OneTimeHighRes}); err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}

	if err := Wait(ctx, s.clock, s.cfg.MeasurementDelay); err != nil {
		return 0, err
	}

	data, err := h.Read(ctx, bh1750FrameSize)
	if err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err)
	}
	if len(data) != bh1750FrameSize {
		return 0, errFactory.WithData(bus.ErrIncompleteData, bus.ShortRead{
			Addr:     s.cfg.Address,
			Expected: bh1750FrameSize,
			Got:      len(data),
		})
	}

	return ConvertBH1750(data), nil
}

// Halt powers the sensor down.
func (s *BH1750) Halt() error {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	h, err := s.bus.OpenHandle(s.cfg.Address)
	if err != nil {
		return errFactory.Wrap(ErrHaltFailed, err)
	}
	defer h.Close()

	if err := h.Write(context.Background(), []byte{bh1750PowerDown}); err != nil {
		return errFactory.Wrap(ErrHaltFailed, err)
	}
	s.started = false

	return nil
}

// ConvertBH1750 converts a big-endian count to lux
func ConvertBH1750(frame []byte) float64 {
	raw := uint16(frame[0])<<8 | uint16(frame[1])
	return float64(raw) / bh1750LuxFactor
}
