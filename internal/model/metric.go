package model

import "fmt"

// MetricKey selects one numeric field of a Sample.
type MetricKey int

const (
	CPUUsage MetricKey = iota
	CPUFreq
	GPUUsage
	GPUFreq
	NPUUsage
	NPUFreq
	RGAUsage
	RGAAclkFreq
	RGACoreFreq
	RGAHclkFreq
	MemUsage
	SwapUsage
	Temperature
	FanState

	numMetrics
)

// Names double as JSON keys in the snapshot export and as keys in the
// sensor table of the config file.
var metricNames = [numMetrics]string{
	CPUUsage:    "cpu_usage",
	CPUFreq:     "cpu_freq",
	GPUUsage:    "gpu_usage",
	GPUFreq:     "gpu_freq",
	NPUUsage:    "npu_usage",
	NPUFreq:     "npu_freq",
	RGAUsage:    "rga_usage",
	RGAAclkFreq: "rga_aclk_freq",
	RGACoreFreq: "rga_core_freq",
	RGAHclkFreq: "rga_hclk_freq",
	MemUsage:    "memory_usage",
	SwapUsage:   "swap_usage",
	Temperature: "temperature",
	FanState:    "fan_state",
}

func (k MetricKey) String() string {
	if !k.Valid() {
		return fmt.Sprintf("metric(%d)", int(k))
	}
	return metricNames[k]
}

// Valid reports whether k names a known metric.
func (k MetricKey) Valid() bool { return k >= 0 && k < numMetrics }

// Unit returns the display unit label for k.
func (k MetricKey) Unit() string {
	switch k {
	case CPUFreq, GPUFreq, NPUFreq, RGAAclkFreq, RGACoreFreq, RGAHclkFreq:
		return "MHz"
	case Temperature:
		return "°C"
	case FanState:
		return ""
	default:
		return "%"
	}
}

// ParseMetricKey maps a metric name back to its key.
func ParseMetricKey(name string) (MetricKey, error) {
	for i, n := range metricNames {
		if n == name {
			return MetricKey(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

// AllMetrics returns every key in declaration order.
func AllMetrics() []MetricKey {
	out := make([]MetricKey, numMetrics)
	for i := range out {
		out[i] = MetricKey(i)
	}
	return out
}
