package sensor

import (
	"context"
	"time"

	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/benbjohnson/clock"
)

const (
	DefaultSHT21Address = 0x40

	sht21TriggerTempHold     = 0xE3
	sht21TriggerHumidityHold = 0xE5

	sht21FrameSize  = 3
	sht21StatusBits = 0x0003
)

// SHT21Config configures the hold-master SHT21 back-end
type SHT21Config struct {
	Address      byte
	SettleDelay  time.Duration
	PollInterval time.Duration
	PollLimit    int
}

// DefaultSHT21Config returns the timings used on the reference hardware
func DefaultSHT21Config() SHT21Config {
	return SHT21Config{
		Address:      DefaultSHT21Address,
		SettleDelay:  100 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		PollLimit:    50,
	}
}

// SHT21 reads humidity then temperature with the blocking hold-master
// commands. Each quantity gets a single attempt.
type SHT21 struct {
	bus   bus.I2C
	cfg   SHT21Config
	clock clock.Clock
}

// NewSHT21 creates the back-end. A nil clock uses the wall clock.
func NewSHT21(b bus.I2C, cfg SHT21Config, clk clock.Clock) *SHT21 {
	if cfg.PollLimit < 1 {
		cfg.PollLimit = 1
	}
	return &SHT21{bus: b, cfg: cfg, clock: orRealClock(clk)}
}

func (s *SHT21) Name() string {
	return "sht21"
}

func (s *SHT21) RetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 1}
}

func (s *SHT21) Read(ctx context.Context) (Climate, error) {
	h, err := s.bus.OpenHandle(s.cfg.Address)
	if err != nil {
		return Climate{}, err
	}
	defer h.Close()

	rawHum, err := s.readRaw(ctx, h, sht21TriggerHumidityHold)
	if err != nil {
		return Climate{}, err
	}

	rawTemp, err := s.readRaw(ctx, h, sht21TriggerTempHold)
	if err != nil {
		return Climate{}, err
	}

	return Climate{
		Temperature: SHT21Temperature(rawTemp),
		Humidity:    SHT21Humidity(rawHum),
	}, nil
}

// readRaw issues cmd and polls for the 3 byte answer, returning the 16 bit
// value with its status bits cleared.
func (s *SHT21) readRaw(ctx context.Context, h bus.I2CHandle, cmd byte) (uint16, error) {
	errFactory := errors.New()

	if err := h.Write(ctx, []byte{cmd}); err != nil {
		return 0, err
	}

	if err := Wait(ctx, s.clock, s.cfg.SettleDelay); err != nil {
		return 0, err
	}

	// The sensor NACKs or answers short while it is still converting.
	for attempt := 1; ; attempt++ {
		data, err := h.Read(ctx, sht21FrameSize)
		if err == nil && len(data) >= sht21FrameSize {
			raw := uint16(data[0])<<8 | uint16(data[1])
			return raw &^ sht21StatusBits, nil
		}
		if err != nil && !notReady(err) {
			return 0, err
		}

		if attempt >= s.cfg.PollLimit {
			return 0, errFactory.WithData(ErrPollTimeout, struct {
				Addr    byte
				Command byte
				Polls   int
			}{
				Addr:    s.cfg.Address,
				Command: cmd,
				Polls:   attempt,
			})
		}

		if err := Wait(ctx, s.clock, s.cfg.PollInterval); err != nil {
			return 0, err
		}
	}
}

func notReady(err error) bool {
	return errors.HasCode(err, bus.ErrIncompleteData) || errors.HasCode(err, bus.ErrTransaction)
}

// SHT21Humidity converts a raw humidity value to %RH
func SHT21Humidity(raw uint16) float64 {
	return -6.0 + 125.0/65536.0*float64(raw)
}

// SHT21Temperature converts a raw temperature value to °C
func SHT21Temperature(raw uint16) float64 {
	return -46.85 + 175.72/65536.0*float64(raw)
}
