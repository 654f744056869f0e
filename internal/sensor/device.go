package sensor

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// DevicetreeCompatible is where ARM boards publish their identification.
const DevicetreeCompatible = "/sys/firmware/devicetree/base/compatible"

// DeviceInfo returns a human-readable board identification: the devicetree
// compatible list, else the host platform reported by gopsutil, else
// "Unknown".
func DeviceInfo(ctx context.Context, r *FileReader, path string) string {
	if b, err := r.Read(ctx, path); err == nil {
		parts := strings.FieldsFunc(string(b), func(c rune) bool { return c == 0 })
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	if info, err := host.InfoWithContext(ctx); err == nil && info.Platform != "" {
		s := info.Platform
		if info.KernelArch != "" {
			s += " " + info.KernelArch
		}
		return s
	}
	return "Unknown"
}
