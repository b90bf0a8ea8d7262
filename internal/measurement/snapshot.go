package measurement

import (
	"fmt"
	"time"
)

// Snapshot is the result of the last successful measurement cycle
type Snapshot struct {
	Temperature    float64 // °C, climate sensor
	BMPTemperature float64 // °C, barometer; 0 when absent
	Humidity       float64 // %RH
	Pressure       float64 // Pa; 0 when absent
	Voltage        float64 // V
	VoltageRaw     int
	LightLevel     int // lux
	ReportIn       uint8
	Timestamp      time.Time
}

// IsZero reports whether no cycle has been published yet
func (s Snapshot) IsZero() bool {
	return s.Timestamp.IsZero()
}

// String renders the diagnostic line, e.g.
//
//	temp: 23.36 (22.90) , hum: 31.25, press: 101325.00, vcc: 3.30, vcc raw: 2640, light: 120
func (s Snapshot) String() string {
	return fmt.Sprintf("temp: %.2f (%.2f) , hum: %.2f, press: %.2f, vcc: %.2f, vcc raw: %d, light: %d",
		s.Temperature, s.BMPTemperature, s.Humidity, s.Pressure, s.Voltage, s.VoltageRaw, s.LightLevel)
}
