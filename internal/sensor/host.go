package sensor

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type virtualMemorySource struct{}

func (virtualMemorySource) Read(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, unavailable("virtual memory", err)
	}
	pct, ok := usedPercent(float64(vm.Total), float64(vm.Available))
	if !ok {
		return 0, unavailable("virtual memory", errNoMatch)
	}
	return pct, nil
}

type swapMemorySource struct{}

func (swapMemorySource) Read(ctx context.Context) (float64, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return 0, unavailable("swap memory", err)
	}
	pct, _ := usedPercent(float64(sw.Total), float64(sw.Free))
	return pct, nil
}

// hostTemperatureSource picks a sensor from gopsutil's temperature list.
// An empty match takes the first sensor reported.
type hostTemperatureSource struct {
	match string
}

func (s hostTemperatureSource) Read(ctx context.Context) (float64, error) {
	// gopsutil returns partial results alongside warnings.
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	for _, t := range temps {
		if s.match == "" || strings.Contains(t.SensorKey, s.match) {
			return t.Temperature * 1000, nil
		}
	}
	if err == nil {
		err = errNoMatch
	}
	return 0, unavailable("host temperature", err)
}
