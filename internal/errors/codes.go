package errors

// Common error codes
const (
	// System errors
	ErrInternal ErrorCode = "internal_error"

	// Configuration errors
	ErrInvalidConfig     ErrorCode = "invalid_configuration"
	ErrReadConfig        ErrorCode = "read_config_failed"
	ErrInvalidThresholds ErrorCode = "invalid_thresholds"
	ErrInvalidVariant    ErrorCode = "invalid_variant"
	ErrInvalidSchedule   ErrorCode = "invalid_schedule"
	ErrInvalidAddress    ErrorCode = "invalid_address"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Lifecycle errors
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrOpenBus  ErrorCode = "open_bus_failed"
	ErrHaltBus  ErrorCode = "halt_bus_failed"
	ErrSchedule ErrorCode = "schedule_failed"
	ErrMeasure  ErrorCode = "measure_failed"

	// Operation errors
	ErrTimeout  ErrorCode = "operation_timeout"
	ErrCanceled ErrorCode = "operation_canceled"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read config file",
	ErrInvalidThresholds: "Reset threshold must be above trigger threshold",
	ErrInvalidVariant:    "Unknown climate sensor variant",
	ErrInvalidSchedule:   "Invalid sampling schedule",
	ErrInvalidAddress:    "Invalid I2C address",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrShutdownFailed:    "Shutdown failed",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrInitApp:           "Failed to initialize application",
	ErrOpenBus:           "Failed to open I2C bus",
	ErrHaltBus:           "Failed to halt I2C bus",
	ErrSchedule:          "Failed to schedule measurements",
	ErrMeasure:           "Measurement cycle failed",
	ErrTimeout:           "Operation timed out",
	ErrCanceled:          "Operation canceled",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
