package bus

import "codeberg.org/mutker/sensord/internal/errors"

const (
	// Transaction Errors
	ErrTransaction    = errors.ErrorCode("bus_transaction_failed")
	ErrIncompleteData = errors.ErrorCode("bus_incomplete_data")

	// Handle Errors
	ErrHandleBusy   = errors.ErrorCode("bus_handle_busy")
	ErrHandleClosed = errors.ErrorCode("bus_handle_closed")
	ErrInvalidCount = errors.ErrorCode("bus_invalid_count")
)

// TxFailure describes a failed transaction for error data
type TxFailure struct {
	Addr  byte
	Op    string
	Error string
}

// ShortRead describes a transfer that returned the wrong number of bytes
type ShortRead struct {
	Addr     byte
	Expected int
	Got      int
}
