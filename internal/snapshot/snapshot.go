// Package snapshot produces the one-shot JSON record used by `socmon --json`
// and the C library.
package snapshot

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/Dicklesworthstone/socmon/internal/model"
)

// TimeFormat is the local-time layout of Record.Timestamp.
const TimeFormat = "2006-01-02 15:04:05.000000000 -07:00"

// DefaultWindow separates the two collections of Take, giving delta-based
// sources such as CPU usage a measurement interval.
const DefaultWindow = 200 * time.Millisecond

// Record is the JSON shape of one sample. Values are in canonical units:
// percent, Hz, millidegrees Celsius and a plain fan level.
type Record struct {
	CPUUsage    float64  `json:"cpu_usage"`
	CPUFreq     uint64   `json:"cpu_freq"`
	GPUUsage    float64  `json:"gpu_usage"`
	GPUFreq     uint64   `json:"gpu_freq"`
	NPUUsage    float64  `json:"npu_usage"`
	NPUFreq     uint64   `json:"npu_freq"`
	RGAUsage    float64  `json:"rga_usage"`
	RGAAclkFreq uint64   `json:"rga_aclk_freq"`
	RGACoreFreq uint64   `json:"rga_core_freq"`
	RGAHclkFreq uint64   `json:"rga_hclk_freq"`
	MemUsage    float64  `json:"memory_usage"`
	SwapUsage   float64  `json:"swap_usage"`
	Temperature int64    `json:"temperature"`
	FanState    uint32   `json:"fan_state"`
	Timestamp   string   `json:"timestamp"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// Collector is the part of sampler.Collector that Take needs.
type Collector interface {
	Collect(ctx context.Context) model.Sample
}

// FromSample converts s to its export shape.
func FromSample(s model.Sample) Record {
	r := Record{
		CPUUsage:    float64(s.CPUUsage),
		CPUFreq:     uint64(s.CPUFreq),
		GPUUsage:    float64(s.GPUUsage),
		GPUFreq:     uint64(s.GPUFreq),
		NPUUsage:    float64(s.NPUUsage),
		NPUFreq:     uint64(s.NPUFreq),
		RGAUsage:    float64(s.RGAUsage),
		RGAAclkFreq: uint64(s.RGAAclk),
		RGACoreFreq: uint64(s.RGACore),
		RGAHclkFreq: uint64(s.RGAHclk),
		MemUsage:    float64(s.MemUsage),
		SwapUsage:   float64(s.SwapUsage),
		Temperature: int64(s.Temperature),
		FanState:    uint32(s.FanState),
		Timestamp:   s.Timestamp.Local().Format(TimeFormat),
	}
	for _, k := range s.Missing() {
		r.Unavailable = append(r.Unavailable, k.String())
	}
	slices.Sort(r.Unavailable)
	return r
}

// Marshal encodes s as a compact JSON object.
func Marshal(s model.Sample) ([]byte, error) {
	return json.Marshal(FromSample(s))
}

// Take collects twice, window apart, and returns the second sample. The
// first collection primes delta-based sources.
func Take(ctx context.Context, c Collector, window time.Duration) model.Sample {
	c.Collect(ctx)
	t := time.NewTimer(window)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	return c.Collect(ctx)
}
