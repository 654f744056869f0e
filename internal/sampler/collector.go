// Package sampler collects one telemetry record per tick from the
// configured sensor chains and streams records to the UI.
package sampler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	socerr "github.com/Dicklesworthstone/socmon/internal/errors"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/sensor"
)

var errStillReading = errors.New("previous read still outstanding")

type reading struct {
	v   float64
	err error
}

type metric struct {
	key    model.MetricKey
	source sensor.Source
	busy   atomic.Bool
	// available is the last reported state; nil until the first collection.
	available *bool
}

// Collector reads every metric once per call. Collect must not be called
// concurrently with itself.
type Collector struct {
	metrics []*metric
	timeout time.Duration
	now     func() time.Time
}

// NewCollector builds one sensor chain per metric from the capability table.
// Metrics without candidates are always reported absent.
func NewCollector(table map[model.MetricKey][]sensor.Spec, timeout time.Duration) (*Collector, error) {
	reader := sensor.NewFileReader()
	sources := make(map[model.MetricKey]sensor.Source, len(table))
	for _, k := range model.AllMetrics() {
		specs := table[k]
		if len(specs) == 0 {
			continue
		}
		chain, err := sensor.BuildChain(specs, reader)
		if err != nil {
			return nil, socerr.Wrap(socerr.CodeConfig, "sensors."+k.String(), err)
		}
		sources[k] = chain
	}
	return newCollector(sources, timeout), nil
}

func newCollector(sources map[model.MetricKey]sensor.Source, timeout time.Duration) *Collector {
	c := &Collector{timeout: timeout, now: time.Now}
	for _, k := range model.AllMetrics() {
		if src, ok := sources[k]; ok {
			c.metrics = append(c.metrics, &metric{key: k, source: src})
		}
	}
	return c
}

// Collect reads all metrics concurrently under one deadline and returns a
// sample stamped with the collection start time. Unavailable readings are
// zero and marked absent.
func (c *Collector) Collect(ctx context.Context) model.Sample {
	s := model.Sample{Timestamp: c.now()}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make([]reading, len(c.metrics))
	// One goroutine per metric, so every read starts inside the deadline.
	// The busy guard keeps a wedged metric from holding more than one.
	var g errgroup.Group
	for i, m := range c.metrics {
		g.Go(func() error {
			results[i] = m.read(ctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, m := range c.metrics {
		r := results[i]
		if r.err == nil {
			s.Set(m.key, r.v)
		}
		m.report(r.err)
	}
	return s
}

// read runs the source on its own goroutine and stops waiting at the
// deadline. A source whose previous read has not returned yet is skipped,
// so a wedged sensor never accumulates goroutines.
func (m *metric) read(ctx context.Context) reading {
	if !m.busy.CompareAndSwap(false, true) {
		return reading{err: socerr.Wrap(socerr.CodeUnavailable, m.key.String(), errStillReading)}
	}
	ch := make(chan reading, 1)
	go func() {
		defer m.busy.Store(false)
		v, err := m.source.Read(ctx)
		ch <- reading{v: v, err: err}
	}()
	select {
	case r := <-ch:
		return r
	case <-ctx.Done():
		return reading{err: socerr.Wrap(socerr.CodeUnavailable, m.key.String(), ctx.Err())}
	}
}

// report logs availability transitions at debug level.
func (m *metric) report(err error) {
	ok := err == nil
	if m.available != nil && *m.available == ok {
		return
	}
	m.available = &ok
	if ok {
		slog.Debug("sensor available", "metric", m.key.String())
		return
	}
	slog.Debug("sensor unavailable", "metric", m.key.String(), "error", err)
}
