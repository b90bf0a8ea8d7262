// Package battery turns battery voltage samples into a sticky low-battery
// alert with separate trigger and reset thresholds.
package battery

import (
	"math"
	"sync"
)

// State is the alert state at the time of the call
type State struct {
	Triggered bool
}

func (s State) String() string {
	if s.Triggered {
		return "triggered"
	}
	return "normal"
}

// Monitor is a hysteresis gate over quantized voltage.
type Monitor struct {
	cfg       Config
	mu        sync.Mutex
	triggered bool
}

// New creates a Monitor in the normal state.
func New(cfg Config) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Monitor{cfg: cfg}, nil
}

// CheckBattery feeds one voltage sample and returns true only on the call
// that moves the monitor into the triggered state. Recovery returns false.
// A NaN sample causes no transition.
func (m *Monitor) CheckBattery(voltage float64) bool {
	if math.IsNaN(voltage) {
		return false
	}
	q := Quantize(voltage)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.triggered {
		if q >= m.cfg.ResetThreshold {
			m.triggered = false
		}
		return false
	}

	if q <= m.cfg.TriggerThreshold {
		m.triggered = true
		return true
	}

	return false
}

// State returns the current alert state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Triggered: m.triggered}
}

// Config returns the thresholds the monitor was built with.
func (m *Monitor) Config() Config {
	return m.cfg
}

// quantumLimit bounds Quantize so the int conversion stays defined.
const quantumLimit = 1 << 52

// Quantize converts volts to centivolts, rounding half away from zero.
// Out of range values saturate at ±quantumLimit, NaN yields 0.
func Quantize(voltage float64) int {
	q := math.Round(voltage * 100)

	switch {
	case math.IsNaN(q):
		return 0
	case q > quantumLimit:
		return quantumLimit
	case q < -quantumLimit:
		return -quantumLimit
	}

	return int(q)
}
