package bus

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/sensord/internal/errors"
	"periph.io/x/conn/v3/i2c"
)

// Periph implements I2C over a periph.io bus.
type Periph struct {
	bus  i2c.Bus
	mu   sync.Mutex
	open map[byte]bool
}

// NewPeriph wraps an opened periph.io bus.
func NewPeriph(b i2c.Bus) *Periph {
	return &Periph{
		bus:  b,
		open: make(map[byte]bool),
	}
}

// Bus returns the underlying periph.io bus for drivers that talk to it directly.
func (p *Periph) Bus() i2c.Bus {
	return p.bus
}

func (p *Periph) String() string {
	return p.bus.String()
}

// OpenHandle implements I2C.
func (p *Periph) OpenHandle(addr byte) (I2CHandle, error) {
	errFactory := errors.New()

	if addr > 0x7F {
		return nil, errFactory.WithData(errors.ErrInvalidAddress, fmt.Sprintf("0x%02X", addr))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open[addr] {
		return nil, errFactory.WithData(ErrHandleBusy, fmt.Sprintf("0x%02X", addr))
	}
	p.open[addr] = true

	return &periphHandle{
		owner: p,
		addr:  addr,
		dev:   &i2c.Dev{Bus: p.bus, Addr: uint16(addr)},
	}, nil
}

func (p *Periph) release(addr byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.open, addr)
}

type periphHandle struct {
	owner  *Periph
	addr   byte
	dev    *i2c.Dev
	mu     sync.Mutex
	closed bool
}

func (h *periphHandle) Write(ctx context.Context, tx []byte) error {
	return h.tx(ctx, "write", tx, nil)
}

func (h *periphHandle) Read(ctx context.Context, count int) ([]byte, error) {
	if count <= 0 {
		return nil, errors.New().WithData(ErrInvalidCount, count)
	}

	buf := make([]byte, count)
	if err := h.tx(ctx, "read", nil, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

func (h *periphHandle) tx(ctx context.Context, op string, w, r []byte) error {
	errFactory := errors.New()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errFactory.WithData(ErrHandleClosed, fmt.Sprintf("0x%02X", h.addr))
	}

	if err := ctx.Err(); err != nil {
		return errFactory.Wrap(errors.ErrCanceled, err)
	}

	if err := h.dev.Tx(w, r); err != nil {
		return errFactory.WithData(ErrTransaction, TxFailure{
			Addr:  h.addr,
			Op:    op,
			Error: err.Error(),
		})
	}

	return nil
}

func (h *periphHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.owner.release(h.addr)

	return nil
}
