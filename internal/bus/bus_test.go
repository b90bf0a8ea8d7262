package bus_test

import (
	"context"
	stderrors "errors"
	"testing"

	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func TestHandleWriteRead(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x44, W: []byte{0x2C, 0x06}},
			{Addr: 0x44, R: []byte{0x64, 0x00, 0xAA, 0x50, 0x00, 0xBB}},
		},
		DontPanic: true,
	}
	p := bus.NewPeriph(playback)

	h, err := p.OpenHandle(0x44)
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	require.NoError(t, h.Write(ctx, []byte{0x2C, 0x06}))

	data, err := h.Read(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x64, 0x00, 0xAA, 0x50, 0x00, 0xBB}, data)
	assert.NoError(t, playback.Close())
}

func TestHandleTransactionError(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x44, W: []byte{0x2C, 0x06}}},
		DontPanic: true,
	}
	p := bus.NewPeriph(playback)

	h, err := p.OpenHandle(0x44)
	require.NoError(t, err)
	defer h.Close()

	err = h.Write(context.Background(), []byte{0xFF})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, bus.ErrTransaction))

	var appErr errors.Error
	require.True(t, stderrors.As(err, &appErr))
	failure, ok := appErr.GetData().(bus.TxFailure)
	require.True(t, ok)
	assert.Equal(t, byte(0x44), failure.Addr)
	assert.Equal(t, "write", failure.Op)
}

func TestOpenHandleExclusive(t *testing.T) {
	p := bus.NewPeriph(&i2ctest.Playback{DontPanic: true})

	h, err := p.OpenHandle(0x23)
	require.NoError(t, err)

	_, err = p.OpenHandle(0x23)
	assert.True(t, errors.HasCode(err, bus.ErrHandleBusy))

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	h2, err := p.OpenHandle(0x23)
	require.NoError(t, err)
	assert.NoError(t, h2.Close())
}

func TestOpenHandleInvalidAddress(t *testing.T) {
	p := bus.NewPeriph(&i2ctest.Playback{DontPanic: true})

	_, err := p.OpenHandle(0x80)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidAddress))
}

func TestClosedHandle(t *testing.T) {
	p := bus.NewPeriph(&i2ctest.Playback{DontPanic: true})

	h, err := p.OpenHandle(0x40)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	err = h.Write(context.Background(), []byte{0xE5})
	assert.True(t, errors.HasCode(err, bus.ErrHandleClosed))
}

func TestCanceledContext(t *testing.T) {
	p := bus.NewPeriph(&i2ctest.Playback{DontPanic: true})

	h, err := p.OpenHandle(0x40)
	require.NoError(t, err)
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.Read(ctx, 3)
	assert.True(t, errors.HasCode(err, errors.ErrCanceled))
}

func TestReadInvalidCount(t *testing.T) {
	p := bus.NewPeriph(&i2ctest.Playback{DontPanic: true})

	h, err := p.OpenHandle(0x40)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Read(context.Background(), 0)
	assert.True(t, errors.HasCode(err, bus.ErrInvalidCount))
}

func TestBusAccessor(t *testing.T) {
	playback := &i2ctest.Playback{DontPanic: true}
	p := bus.NewPeriph(playback)

	assert.Equal(t, "playback", p.String())
	assert.NoError(t, p.Bus().SetSpeed(400*physic.KiloHertz))
}
