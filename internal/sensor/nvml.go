package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// NVML is initialised once per process and never shut down: the library
// stays loaded for the lifetime of the sampler.
var (
	nvmlOnce sync.Once
	nvmlErr  error
)

func nvmlInit() error {
	nvmlOnce.Do(func() {
		if ret := nvml.Init(); ret != nvml.SUCCESS {
			nvmlErr = fmt.Errorf("initialize NVML: %s", nvml.ErrorString(ret))
			slog.Debug("NVML unavailable", "error", nvmlErr)
		}
	})
	return nvmlErr
}

func nvmlDevice(index int) (nvml.Device, error) {
	if err := nvmlInit(); err != nil {
		return nil, err
	}
	dev, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("device %d: %s", index, nvml.ErrorString(ret))
	}
	return dev, nil
}

type nvmlUtilizationSource struct {
	index int
}

func (s nvmlUtilizationSource) Read(ctx context.Context) (float64, error) {
	dev, err := nvmlDevice(s.index)
	if err != nil {
		return 0, unavailable("nvml utilization", err)
	}
	util, ret := dev.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return 0, unavailable("nvml utilization", fmt.Errorf("%s", nvml.ErrorString(ret)))
	}
	return float64(util.Gpu), nil
}

type nvmlClockSource struct {
	index int
}

func (s nvmlClockSource) Read(ctx context.Context) (float64, error) {
	dev, err := nvmlDevice(s.index)
	if err != nil {
		return 0, unavailable("nvml clock", err)
	}
	mhz, ret := dev.GetClockInfo(nvml.CLOCK_GRAPHICS)
	if ret != nvml.SUCCESS {
		return 0, unavailable("nvml clock", fmt.Errorf("%s", nvml.ErrorString(ret)))
	}
	return float64(mhz) * 1e6, nil
}
