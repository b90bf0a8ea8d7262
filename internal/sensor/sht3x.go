package sensor

import (
	"context"
	"time"

	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/benbjohnson/clock"
)

const (
	DefaultSHT3xAddress = 0x44

	sht3xFrameSize = 6
)

// Single shot measurement, clock stretching, high repeatability.
var sht3xMeasureCmd = []byte{0x2C, 0x06}

// SHT3xConfig configures the polled SHT3x back-end
type SHT3xConfig struct {
	Address     byte
	SettleDelay time.Duration
	ReadDelay   time.Duration
	Attempts    int
	Backoff     time.Duration
}

// DefaultSHT3xConfig returns the timings used on the reference hardware
func DefaultSHT3xConfig() SHT3xConfig {
	return SHT3xConfig{
		Address:     DefaultSHT3xAddress,
		SettleDelay: 500 * time.Millisecond,
		ReadDelay:   50 * time.Millisecond,
		Attempts:    3,
		Backoff:     100 * time.Millisecond,
	}
}

// SHT3x reads temperature and humidity from a Sensirion SHT3x in a single
// transaction of 6 bytes. CRC bytes are received but not checked.
type SHT3x struct {
	bus   bus.I2C
	cfg   SHT3xConfig
	clock clock.Clock
}

// NewSHT3x creates the back-end. A nil clock uses the wall clock.
func NewSHT3x(b bus.I2C, cfg SHT3xConfig, clk clock.Clock) *SHT3x {
	return &SHT3x{bus: b, cfg: cfg, clock: orRealClock(clk)}
}

func (s *SHT3x) Name() string {
	return "sht3x"
}

func (s *SHT3x) RetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: s.cfg.Attempts, Backoff: s.cfg.Backoff}
}

func (s *SHT3x) Read(ctx context.Context) (Climate, error) {
	errFactory := errors.New()

	h, err := s.bus.OpenHandle(s.cfg.Address)
	if err != nil {
		return Climate{}, err
	}
	defer h.Close()

	if err := h.Write(ctx, sht3xMeasureCmd); err != nil {
		return Climate{}, err
	}

	if err := Wait(ctx, s.clock, s.cfg.SettleDelay); err != nil {
		return Climate{}, err
	}

	data, err := h.Read(ctx, sht3xFrameSize)
	if err != nil {
		return Climate{}, err
	}
	if len(data) != sht3xFrameSize {
		return Climate{}, errFactory.WithData(bus.ErrIncompleteData, bus.ShortRead{
			Addr:     s.cfg.Address,
			Expected: sht3xFrameSize,
			Got:      len(data),
		})
	}

	if err := Wait(ctx, s.clock, s.cfg.ReadDelay); err != nil {
		return Climate{}, err
	}

	// Only buffered handles can report leftovers; periph transfers are a
	// single atomic Tx, so there the length check above is the whole test.
	if buffered, ok := h.(bus.Buffered); ok {
		if left := buffered.Available(); left != 0 {
			return Climate{}, errFactory.WithData(bus.ErrIncompleteData, bus.ShortRead{
				Addr:     s.cfg.Address,
				Expected: sht3xFrameSize,
				Got:      sht3xFrameSize + left,
			})
		}
	}

	return ConvertSHT3x(data), nil
}

// ConvertSHT3x converts a raw frame
// (temp MSB, temp LSB, CRC, humidity MSB, humidity LSB, CRC).
func ConvertSHT3x(frame []byte) Climate {
	rawTemp := float64(frame[0])*256 + float64(frame[1])
	rawHum := float64(frame[3])*256 + float64(frame[4])

	return Climate{
		Temperature: rawTemp*175/65535.0 - 45,
		Humidity:    rawHum * 100 / 65535.0,
	}
}
