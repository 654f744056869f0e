// Package sensor reads raw hardware counters from procfs, sysfs, debugfs,
// gopsutil and NVML. Every reading is best-effort: a missing, unreadable,
// stuck or unparsable source yields an UNAVAILABLE error that the collector
// turns into an absent reading.
package sensor

import (
	"context"
	"fmt"

	socerr "github.com/Dicklesworthstone/socmon/internal/errors"
	"github.com/Dicklesworthstone/socmon/internal/model"
)

// Source reads one raw counter and returns it in canonical units
// (percent, hertz, millidegrees Celsius, or a plain count).
type Source interface {
	Read(ctx context.Context) (float64, error)
}

// Kind names a source variant in the capability table.
type Kind string

const (
	KindCPUTimes        Kind = "cpu_times"
	KindProcStat        Kind = "procstat"
	KindSysfsInt        Kind = "sysfs_int"
	KindDevfreqLoad     Kind = "devfreq_load"
	KindDebugfsLoad     Kind = "debugfs_load"
	KindClkSummary      Kind = "clk_summary"
	KindMeminfo         Kind = "meminfo"
	KindVirtualMemory   Kind = "virtual_memory"
	KindSwapMemory      Kind = "swap_memory"
	KindHostTemperature Kind = "host_temperature"
	KindNVMLUtilization Kind = "nvml_utilization"
	KindNVMLClock       Kind = "nvml_clock"
)

// Spec describes one candidate source for a metric.
type Spec struct {
	Kind   Kind    `yaml:"kind"`
	Path   string  `yaml:"path,omitempty"`
	Marker string  `yaml:"marker,omitempty"`
	Clock  string  `yaml:"clock,omitempty"`
	Field  string  `yaml:"field,omitempty"`
	Scale  float64 `yaml:"scale,omitempty"`
	Index  int     `yaml:"index,omitempty"`
}

// Build turns a spec into a Source. File-backed kinds share r so that a
// stuck path is never read by more than one goroutine at a time.
func Build(spec Spec, r *FileReader) (Source, error) {
	needPath := func() error {
		if spec.Path == "" {
			return socerr.New(socerr.CodeConfig, fmt.Sprintf("sensor kind %q requires a path", spec.Kind))
		}
		return nil
	}

	switch spec.Kind {
	case KindCPUTimes:
		return &cpuTimesSource{}, nil
	case KindProcStat:
		if err := needPath(); err != nil {
			return nil, err
		}
		return &procStatSource{reader: r, path: spec.Path}, nil
	case KindSysfsInt:
		if err := needPath(); err != nil {
			return nil, err
		}
		scale := spec.Scale
		if scale == 0 {
			scale = 1
		}
		return &sysfsIntSource{reader: r, pattern: spec.Path, scale: scale}, nil
	case KindDevfreqLoad:
		if err := needPath(); err != nil {
			return nil, err
		}
		return &devfreqLoadSource{reader: r, path: spec.Path}, nil
	case KindDebugfsLoad:
		if err := needPath(); err != nil {
			return nil, err
		}
		marker := spec.Marker
		if marker == "" {
			marker = "load:"
		}
		return &debugfsLoadSource{reader: r, path: spec.Path, marker: marker}, nil
	case KindClkSummary:
		if err := needPath(); err != nil {
			return nil, err
		}
		if spec.Clock == "" {
			return nil, socerr.New(socerr.CodeConfig, "sensor kind clk_summary requires a clock name")
		}
		return &clkSummarySource{reader: r, path: spec.Path, clock: spec.Clock}, nil
	case KindMeminfo:
		if err := needPath(); err != nil {
			return nil, err
		}
		if spec.Field != "memory" && spec.Field != "swap" {
			return nil, socerr.New(socerr.CodeConfig, fmt.Sprintf("meminfo field must be memory or swap, got %q", spec.Field))
		}
		return &meminfoSource{reader: r, path: spec.Path, swap: spec.Field == "swap"}, nil
	case KindVirtualMemory:
		return virtualMemorySource{}, nil
	case KindSwapMemory:
		return swapMemorySource{}, nil
	case KindHostTemperature:
		return hostTemperatureSource{match: spec.Marker}, nil
	case KindNVMLUtilization:
		return nvmlUtilizationSource{index: spec.Index}, nil
	case KindNVMLClock:
		return nvmlClockSource{index: spec.Index}, nil
	}
	return nil, socerr.New(socerr.CodeConfig, fmt.Sprintf("unknown sensor kind %q", spec.Kind))
}

// Chain tries each candidate in order; the first reading wins.
type Chain []Source

// Read implements Source.
func (c Chain) Read(ctx context.Context) (float64, error) {
	var last error
	for _, s := range c {
		v, err := s.Read(ctx)
		if err == nil {
			return v, nil
		}
		last = err
		if ctx.Err() != nil {
			break
		}
	}
	if last == nil {
		return 0, unavailable("no candidate sources", nil)
	}
	return 0, last
}

// BuildChain builds one Chain from an ordered candidate list.
func BuildChain(specs []Spec, r *FileReader) (Chain, error) {
	chain := make(Chain, 0, len(specs))
	for _, spec := range specs {
		src, err := Build(spec, r)
		if err != nil {
			return nil, err
		}
		chain = append(chain, src)
	}
	return chain, nil
}

// DefaultTable is the capability table for RK3588-class boards, with
// generic Linux and NVML fallbacks.
func DefaultTable() map[model.MetricKey][]Spec {
	const clk = "/sys/kernel/debug/clk/clk_summary"
	return map[model.MetricKey][]Spec{
		model.CPUUsage: {
			{Kind: KindCPUTimes},
			{Kind: KindProcStat, Path: "/proc/stat"},
		},
		model.CPUFreq: {
			{Kind: KindSysfsInt, Path: "/sys/devices/system/cpu/cpu[0-9]*/cpufreq/scaling_cur_freq", Scale: 1000},
		},
		model.GPUUsage: {
			{Kind: KindDevfreqLoad, Path: "/sys/class/devfreq/fb000000.gpu/load"},
			{Kind: KindDevfreqLoad, Path: "/sys/class/devfreq/ff700000.gpu/load"},
			{Kind: KindNVMLUtilization},
		},
		model.GPUFreq: {
			{Kind: KindSysfsInt, Path: "/sys/class/devfreq/fb000000.gpu/cur_freq"},
			{Kind: KindSysfsInt, Path: "/sys/class/devfreq/ff700000.gpu/cur_freq"},
			{Kind: KindNVMLClock},
		},
		model.NPUUsage: {
			{Kind: KindDebugfsLoad, Path: "/sys/kernel/debug/rknpu/load", Marker: "NPU load:"},
		},
		model.NPUFreq: {
			{Kind: KindSysfsInt, Path: "/sys/class/devfreq/fdab0000.npu/cur_freq"},
		},
		model.RGAUsage: {
			{Kind: KindDebugfsLoad, Path: "/sys/kernel/debug/rkrga/load", Marker: "load"},
		},
		model.RGAAclkFreq: {{Kind: KindClkSummary, Path: clk, Clock: "aclk_rga2e"}},
		model.RGACoreFreq: {{Kind: KindClkSummary, Path: clk, Clock: "clk_core_rga2e"}},
		model.RGAHclkFreq: {{Kind: KindClkSummary, Path: clk, Clock: "hclk_rga2e"}},
		model.MemUsage: {
			{Kind: KindVirtualMemory},
			{Kind: KindMeminfo, Path: "/proc/meminfo", Field: "memory"},
		},
		model.SwapUsage: {
			{Kind: KindSwapMemory},
			{Kind: KindMeminfo, Path: "/proc/meminfo", Field: "swap"},
		},
		model.Temperature: {
			{Kind: KindSysfsInt, Path: "/sys/class/thermal/thermal_zone0/temp"},
			{Kind: KindHostTemperature},
		},
		model.FanState: {
			{Kind: KindSysfsInt, Path: "/sys/class/thermal/cooling_device4/cur_state"},
		},
	}
}

func unavailable(what string, cause error) error {
	return socerr.Wrap(socerr.CodeUnavailable, what, cause)
}
