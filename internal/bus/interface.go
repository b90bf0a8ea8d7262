// Package bus exposes addressable I2C handles on top of a periph.io bus.
package bus

import (
	"context"
)

// I2C represents a shareable I2C bus.
type I2C interface {
	// OpenHandle locks and returns a handle that MUST be closed when done.
	// Only one handle per address can be open at a time.
	OpenHandle(addr byte) (I2CHandle, error)
}

// I2CHandle is similar to an io handle. It MUST be closed to release the address.
type I2CHandle interface {
	// Write sends tx to the device in a single transaction.
	Write(ctx context.Context, tx []byte) error
	// Read requests count bytes from the device. Implementations that can
	// observe short transfers return the bytes actually received together
	// with an ErrIncompleteData error.
	Read(ctx context.Context, count int) ([]byte, error)
	// Close releases the address.
	Close() error
}

// Buffered is implemented by handles that receive into a driver buffer and
// can report bytes left over after a read. Periph handles do not: each
// transfer is one Tx and nothing is left behind.
type Buffered interface {
	Available() int
}
