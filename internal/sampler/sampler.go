package sampler

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/socmon/internal/model"
)

// streamBuffer lets the sampler run a few ticks ahead of a busy UI loop.
const streamBuffer = 8

// Sampler periodically emits Samples built by its Collector. Sampling runs
// on its own goroutine so a slow sensor never delays input handling, and a
// slow UI never delays the sampling clock by more than streamBuffer ticks.
type Sampler struct {
	Interval  time.Duration
	collector *Collector
}

func New(c *Collector, interval time.Duration) *Sampler {
	return &Sampler{Interval: interval, collector: c}
}

// Stream returns a channel that receives one sample per tick until ctx is
// done, then closes. The ticker runs at a fixed rate, so the cadence does
// not drift; ticks that fall due while a collection overruns are dropped.
func (s *Sampler) Stream(ctx context.Context) <-chan model.Sample {
	ch := make(chan model.Sample, streamBuffer)
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-ticker.C:
				samp := s.collector.Collect(ctx)
				select {
				case ch <- samp:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
