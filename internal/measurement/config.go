package measurement

// DefaultCoefficient maps a 16 bit ADS1115 code at ±4.096 V full scale to volts
const DefaultCoefficient = 4.096 / 32768

// Config holds the provider settings that are not owned by a back-end
type Config struct {
	// Coefficient converts a raw analog code to volts. Any value is accepted,
	// including zero and negative factors.
	Coefficient float64
}

// DefaultConfig returns the provider defaults
func DefaultConfig() Config {
	return Config{Coefficient: DefaultCoefficient}
}
