// Package bustest provides a scriptable bus.I2C for driver tests.
package bustest

import (
	"context"
	"sync"

	"codeberg.org/mutker/sensord/internal/bus"
	"codeberg.org/mutker/sensord/internal/errors"
)

// Tx records one transfer seen by the fake bus.
type Tx struct {
	Addr  byte
	Data  []byte // bytes written, or count bytes read
	Count int
}

// Fake implements bus.I2C. Every hook is optional; a missing OnWrite
// accepts the write and a missing OnRead returns zeroes.
type Fake struct {
	mu sync.Mutex

	OnWrite   func(addr byte, tx []byte) error
	OnRead    func(addr byte, count int) ([]byte, error)
	Available func(addr byte) int

	Writes []Tx
	Reads  []Tx
	Opened int
	Closed int
}

var _ bus.I2C = (*Fake)(nil)

// TxError returns the error a failed transaction produces on a real bus.
func TxError(addr byte) error {
	return errors.New().WithData(bus.ErrTransaction, bus.TxFailure{
		Addr:  addr,
		Op:    "write",
		Error: "i2c: NACK",
	})
}

// OpenHandle implements bus.I2C.
func (f *Fake) OpenHandle(addr byte) (bus.I2CHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opened++

	return &handle{fake: f, addr: addr}, nil
}

// WritesTo returns the payloads written to addr in order.
func (f *Fake) WritesTo(addr byte) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out [][]byte
	for _, tx := range f.Writes {
		if tx.Addr == addr {
			out = append(out, tx.Data)
		}
	}

	return out
}

type handle struct {
	fake *Fake
	addr byte
}

func (h *handle) Write(_ context.Context, tx []byte) error {
	f := h.fake
	f.mu.Lock()
	data := make([]byte, len(tx))
	copy(data, tx)
	f.Writes = append(f.Writes, Tx{Addr: h.addr, Data: data, Count: len(tx)})
	hook := f.OnWrite
	f.mu.Unlock()

	if hook == nil {
		return nil
	}

	return hook(h.addr, tx)
}

func (h *handle) Read(_ context.Context, count int) ([]byte, error) {
	f := h.fake
	f.mu.Lock()
	f.Reads = append(f.Reads, Tx{Addr: h.addr, Count: count})
	hook := f.OnRead
	f.mu.Unlock()

	if hook == nil {
		return make([]byte, count), nil
	}

	data, err := hook(h.addr, count)
	if err != nil {
		return nil, err
	}
	if len(data) != count {
		return data, errors.New().WithData(bus.ErrIncompleteData, bus.ShortRead{
			Addr:     h.addr,
			Expected: count,
			Got:      len(data),
		})
	}

	return data, nil
}

func (h *handle) Available() int {
	f := h.fake
	f.mu.Lock()
	hook := f.Available
	f.mu.Unlock()

	if hook == nil {
		return 0
	}

	return hook(h.addr)
}

func (h *handle) Close() error {
	f := h.fake
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed++

	return nil
}
