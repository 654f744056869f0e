package sensor

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
)

// sysfsIntSource reads a single-number file. A glob pattern is expanded in
// natural order and the first responsive match wins, which covers
// per-core cpufreq files where low-numbered cores may be offline.
type sysfsIntSource struct {
	reader  *FileReader
	pattern string
	scale   float64
}

func (s *sysfsIntSource) Read(ctx context.Context) (float64, error) {
	paths := []string{s.pattern}
	if strings.ContainsAny(s.pattern, "*?[") {
		matches, err := filepath.Glob(s.pattern)
		if err != nil {
			return 0, unavailable("glob "+s.pattern, err)
		}
		if len(matches) == 0 {
			return 0, unavailable("glob "+s.pattern, errNoMatch)
		}
		sort.Slice(matches, func(i, j int) bool { return naturalLess(matches[i], matches[j]) })
		paths = matches
	}

	var last error
	for _, p := range paths {
		b, err := s.reader.Read(ctx, p)
		if err != nil {
			last = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		v, err := parseNumber(b)
		if err != nil {
			last = unavailable("parse "+p, err)
			continue
		}
		return v * s.scale, nil
	}
	return 0, last
}

type devfreqLoadSource struct {
	reader *FileReader
	path   string
}

func (s *devfreqLoadSource) Read(ctx context.Context) (float64, error) {
	b, err := s.reader.Read(ctx, s.path)
	if err != nil {
		return 0, err
	}
	v, err := parseDevfreqLoad(b)
	if err != nil {
		return 0, unavailable("parse "+s.path, err)
	}
	return v, nil
}

type debugfsLoadSource struct {
	reader *FileReader
	path   string
	marker string
}

func (s *debugfsLoadSource) Read(ctx context.Context) (float64, error) {
	b, err := s.reader.Read(ctx, s.path)
	if err != nil {
		return 0, err
	}
	v, err := parseDebugfsLoad(b, s.marker)
	if err != nil {
		return 0, unavailable("parse "+s.path, err)
	}
	return v, nil
}

type clkSummarySource struct {
	reader *FileReader
	path   string
	clock  string
}

func (s *clkSummarySource) Read(ctx context.Context) (float64, error) {
	b, err := s.reader.Read(ctx, s.path)
	if err != nil {
		return 0, err
	}
	v, err := parseClkSummary(b, s.clock)
	if err != nil {
		return 0, unavailable("clock "+s.clock, err)
	}
	return v, nil
}

type meminfoSource struct {
	reader *FileReader
	path   string
	swap   bool
}

func (s *meminfoSource) Read(ctx context.Context) (float64, error) {
	b, err := s.reader.Read(ctx, s.path)
	if err != nil {
		return 0, err
	}
	kv := parseMeminfo(b)
	if s.swap {
		total, ok := kv["SwapTotal"]
		if !ok {
			return 0, unavailable("parse "+s.path, errNoMatch)
		}
		// No swap configured reads as 0% used.
		pct, _ := usedPercent(total, kv["SwapFree"])
		return pct, nil
	}
	avail, ok := kv["MemAvailable"]
	if !ok {
		return 0, unavailable("parse "+s.path, errNoMatch)
	}
	pct, ok := usedPercent(kv["MemTotal"], avail)
	if !ok {
		return 0, unavailable("parse "+s.path, errNoMatch)
	}
	return pct, nil
}
