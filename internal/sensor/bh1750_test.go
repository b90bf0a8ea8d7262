package sensor_test

import (
	"context"
	"testing"

	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/bus/bustest"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func fastBH1750Config() sensor.BH1750Config {
	cfg := sensor.DefaultBH1750Config()
	cfg.MeasurementDelay = 0
	return cfg
}

func TestBH1750Lifecycle(t *testing.T) {
	addr := uint16(sensor.DefaultBH1750Address)
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{0x01}},
			{Addr: addr, W: []byte{0x20}},
			{Addr: addr, W: []byte{0x20}},
			{Addr: addr, R: []byte{0x01, 0x2C}},
			{Addr: addr, W: []byte{0x00}},
		},
		DontPanic: true,
	}
	s := sensor.NewBH1750(bus.NewPeriph(playback), fastBH1750Config(), nil)
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx))

	lux, err := s.Read(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, lux, 1e-9)

	require.NoError(t, s.Halt())
	assert.NoError(t, playback.Close())
}

func TestBH1750ReadBeforeBegin(t *testing.T) {
	s := sensor.NewBH1750(&bustest.Fake{}, fastBH1750Config(), nil)

	_, err := s.Read(context.Background())
	assert.True(t, errors.HasCode(err, sensor.ErrNotStarted))
	assert.NoError(t, s.Halt())
}

func TestBH1750BeginFailure(t *testing.T) {
	fake := &bustest.Fake{
		OnWrite: func(addr byte, _ []byte) error { return bustest.TxError(addr) },
	}
	s := sensor.NewBH1750(fake, fastBH1750Config(), nil)

	err := s.Begin(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, sensor.ErrInitFailed))
	assert.True(t, errors.HasCode(err, bus.ErrTransaction))
}

func TestBH1750ShortRead(t *testing.T) {
	fake := &bustest.Fake{
		OnRead: func(_ byte, _ int) ([]byte, error) { return []byte{0x01}, nil },
	}
	s := sensor.NewBH1750(fake, fastBH1750Config(), nil)
	require.NoError(t, s.Begin(context.Background()))

	_, err := s.Read(context.Background())
	assert.True(t, errors.HasCode(err, bus.ErrIncompleteData))
}

func TestConvertBH1750(t *testing.T) {
	assert.InDelta(t, 0.0, sensor.ConvertBH1750([]byte{0x00, 0x00}), 1e-9)
	assert.InDelta(t, 54612.5, sensor.ConvertBH1750([]byte{0xFF, 0xFF}), 1e-9)
}
