package sensor

import (
	"context"
	"errors"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	errPriming = errors.New("first read primes counters")
	errNoDelta = errors.New("counters did not advance")
)

// cpuDelta turns cumulative busy/total counters into utilisation over the
// interval since the previous reading. The mutex guards against a read that
// outlived its deadline racing the next tick.
type cpuDelta struct {
	mu        sync.Mutex
	primed    bool
	prevBusy  float64
	prevTotal float64
}

func (d *cpuDelta) update(busy, total float64) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.primed {
		d.primed = true
		d.prevBusy, d.prevTotal = busy, total
		return 0, unavailable("cpu usage", errPriming)
	}
	dt := total - d.prevTotal
	db := busy - d.prevBusy
	d.prevBusy, d.prevTotal = busy, total
	if dt <= 0 {
		return 0, unavailable("cpu usage", errNoDelta)
	}
	pct := 100 * db / dt
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	return pct, nil
}

// cpuTimesSource computes aggregate CPU usage from gopsutil's cpu.Times.
type cpuTimesSource struct {
	delta cpuDelta
}

func (s *cpuTimesSource) Read(ctx context.Context) (float64, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return 0, unavailable("cpu times", err)
	}
	if len(times) == 0 {
		return 0, unavailable("cpu times", errNoMatch)
	}
	t := times[0]
	total := t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
	idle := t.Idle + t.Iowait
	return s.delta.update(total-idle, total)
}

// procStatSource computes aggregate CPU usage from a /proc/stat-style file.
type procStatSource struct {
	reader *FileReader
	path   string
	delta  cpuDelta
}

func (s *procStatSource) Read(ctx context.Context) (float64, error) {
	b, err := s.reader.Read(ctx, s.path)
	if err != nil {
		return 0, err
	}
	busy, total, err := parseProcStat(b)
	if err != nil {
		return 0, unavailable("parse "+s.path, err)
	}
	return s.delta.update(busy, total)
}
