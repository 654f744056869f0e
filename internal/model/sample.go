package model

import (
	"math"
	"time"
)

// Sample is one timestamped telemetry record exchanged between the
// collector, the history store, the UI, and the JSON snapshot exporter.
// Values are kept in canonical units; conversion to display units happens
// at projection time.
type Sample struct {
	Timestamp time.Time

	CPUUsage Percent
	CPUFreq  Hertz
	GPUUsage Percent
	GPUFreq  Hertz
	NPUUsage Percent
	NPUFreq  Hertz

	RGAUsage Percent
	RGAAclk  Hertz
	RGACore  Hertz
	RGAHclk  Hertz

	MemUsage  Percent
	SwapUsage Percent

	Temperature MilliCelsius
	FanState    Level

	// present records which readings came from a responsive sensor. A zero
	// value without the matching bit means "unavailable", not "idle".
	present uint32
}

// Zero returns an empty sample for initialization.
func Zero() Sample { return Sample{Timestamp: time.Now()} }

// Set stores a canonical-unit reading for key and marks it present.
// Negative values clamp to zero; NaN and infinities leave key absent.
func (s *Sample) Set(key MetricKey, v float64) {
	if !key.Valid() || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < 0 {
		v = 0
	}
	switch key {
	case CPUUsage:
		s.CPUUsage = Percent(v)
	case CPUFreq:
		s.CPUFreq = Hertz(v)
	case GPUUsage:
		s.GPUUsage = Percent(v)
	case GPUFreq:
		s.GPUFreq = Hertz(v)
	case NPUUsage:
		s.NPUUsage = Percent(v)
	case NPUFreq:
		s.NPUFreq = Hertz(v)
	case RGAUsage:
		s.RGAUsage = Percent(v)
	case RGAAclkFreq:
		s.RGAAclk = Hertz(v)
	case RGACoreFreq:
		s.RGACore = Hertz(v)
	case RGAHclkFreq:
		s.RGAHclk = Hertz(v)
	case MemUsage:
		s.MemUsage = Percent(v)
	case SwapUsage:
		s.SwapUsage = Percent(v)
	case Temperature:
		s.Temperature = MilliCelsius(v)
	case FanState:
		s.FanState = Level(v)
	}
	s.present |= 1 << uint(key)
}

// Present reports whether key holds a real reading.
func (s Sample) Present(key MetricKey) bool {
	return key.Valid() && s.present&(1<<uint(key)) != 0
}

// Raw returns the canonical-unit value for key and whether it is present.
// Absent readings return zero.
func (s Sample) Raw(key MetricKey) (float64, bool) {
	var v float64
	switch key {
	case CPUUsage:
		v = float64(s.CPUUsage)
	case CPUFreq:
		v = float64(s.CPUFreq)
	case GPUUsage:
		v = float64(s.GPUUsage)
	case GPUFreq:
		v = float64(s.GPUFreq)
	case NPUUsage:
		v = float64(s.NPUUsage)
	case NPUFreq:
		v = float64(s.NPUFreq)
	case RGAUsage:
		v = float64(s.RGAUsage)
	case RGAAclkFreq:
		v = float64(s.RGAAclk)
	case RGACoreFreq:
		v = float64(s.RGACore)
	case RGAHclkFreq:
		v = float64(s.RGAHclk)
	case MemUsage:
		v = float64(s.MemUsage)
	case SwapUsage:
		v = float64(s.SwapUsage)
	case Temperature:
		v = float64(s.Temperature)
	case FanState:
		v = float64(s.FanState)
	default:
		return 0, false
	}
	return v, s.Present(key)
}

// Display returns the value for key converted to its display unit.
func (s Sample) Display(key MetricKey) (float64, bool) {
	switch key {
	case CPUFreq:
		return s.CPUFreq.MHz(), s.Present(key)
	case GPUFreq:
		return s.GPUFreq.MHz(), s.Present(key)
	case NPUFreq:
		return s.NPUFreq.MHz(), s.Present(key)
	case RGAAclkFreq:
		return s.RGAAclk.MHz(), s.Present(key)
	case RGACoreFreq:
		return s.RGACore.MHz(), s.Present(key)
	case RGAHclkFreq:
		return s.RGAHclk.MHz(), s.Present(key)
	case Temperature:
		return s.Temperature.Celsius(), s.Present(key)
	}
	return s.Raw(key)
}

// Missing lists the keys without a reading, in key order.
func (s Sample) Missing() []MetricKey {
	var out []MetricKey
	for _, k := range AllMetrics() {
		if !s.Present(k) {
			out = append(out, k)
		}
	}
	return out
}
