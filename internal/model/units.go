package model

// Percent is a utilisation ratio in the range 0-100.
type Percent float64

// Hertz is a clock rate.
type Hertz uint64

// MHz converts to megahertz for display.
func (h Hertz) MHz() float64 { return float64(h) / 1e6 }

// MilliCelsius is a temperature as reported by thermal zones.
type MilliCelsius int64

// Celsius converts to degrees for display.
func (t MilliCelsius) Celsius() float64 { return float64(t) / 1e3 }

// Level is a discrete device state such as a cooling-device step.
type Level uint32
