package sampler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	socerr "github.com/Dicklesworthstone/socmon/internal/errors"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/sensor"
)

type fixed float64

func (f fixed) Read(context.Context) (float64, error) { return float64(f), nil }

type failing struct{}

func (failing) Read(context.Context) (float64, error) {
	return 0, socerr.New(socerr.CodeUnavailable, "no sensor")
}

// stuck blocks until release is closed, ignoring its context.
type stuck struct {
	release chan struct{}
	calls   atomic.Int32
}

func (s *stuck) Read(context.Context) (float64, error) {
	s.calls.Add(1)
	<-s.release
	return 1, nil
}

func TestCollectSetsPresence(t *testing.T) {
	c := newCollector(map[model.MetricKey]sensor.Source{
		model.CPUUsage:    fixed(42),
		model.MemUsage:    fixed(63.5),
		model.Temperature: failing{},
	}, 50*time.Millisecond)

	s := c.Collect(context.Background())
	assert.False(t, s.Timestamp.IsZero())

	v, ok := s.Raw(model.CPUUsage)
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
	v, ok = s.Raw(model.MemUsage)
	assert.True(t, ok)
	assert.Equal(t, 63.5, v)

	assert.False(t, s.Present(model.Temperature))
	assert.Equal(t, model.MilliCelsius(0), s.Temperature)
	// Unconfigured metrics are absent too.
	assert.False(t, s.Present(model.GPUFreq))
}

func TestCollectStuckSourceTimesOut(t *testing.T) {
	st := &stuck{release: make(chan struct{})}
	defer close(st.release)

	c := newCollector(map[model.MetricKey]sensor.Source{
		model.CPUUsage: fixed(10),
		model.FanState: st,
	}, 30*time.Millisecond)

	start := time.Now()
	s := c.Collect(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, s.Present(model.CPUUsage))
	assert.False(t, s.Present(model.FanState))

	// The wedged read is still outstanding, so it is not started again.
	s = c.Collect(context.Background())
	assert.False(t, s.Present(model.FanState))
	assert.Equal(t, int32(1), st.calls.Load())
}

// blocked waits for the collection deadline.
type blocked struct{}

func (blocked) Read(ctx context.Context) (float64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestCollectManyStuckSourcesDoNotStarveHealthyOnes(t *testing.T) {
	sources := map[model.MetricKey]sensor.Source{
		model.MemUsage: fixed(3),
		model.FanState: fixed(1),
	}
	stalled := []model.MetricKey{
		model.CPUUsage, model.CPUFreq, model.GPUUsage, model.GPUFreq,
		model.NPUUsage, model.NPUFreq, model.RGAUsage, model.RGAAclkFreq,
	}
	for _, k := range stalled {
		sources[k] = blocked{}
	}
	c := newCollector(sources, 50*time.Millisecond)

	s := c.Collect(context.Background())
	assert.True(t, s.Present(model.MemUsage))
	assert.True(t, s.Present(model.FanState))
	for _, k := range stalled {
		assert.False(t, s.Present(k), k.String())
	}
}

func TestReadReportsStillReading(t *testing.T) {
	m := &metric{key: model.GPUUsage, source: fixed(1)}
	m.busy.Store(true)
	r := m.read(context.Background())
	require.Error(t, r.err)
	assert.True(t, errors.Is(r.err, errStillReading))
	assert.True(t, socerr.IsCode(r.err, socerr.CodeUnavailable))
}

func TestReportTracksTransitions(t *testing.T) {
	m := &metric{key: model.NPUUsage}
	m.report(nil)
	require.NotNil(t, m.available)
	assert.True(t, *m.available)
	m.report(errors.New("gone"))
	assert.False(t, *m.available)
}

func TestNewCollectorFromTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp")
	require.NoError(t, os.WriteFile(path, []byte("51250\n"), 0o644))

	c, err := NewCollector(map[model.MetricKey][]sensor.Spec{
		model.Temperature: {{Kind: sensor.KindSysfsInt, Path: path}},
	}, 100*time.Millisecond)
	require.NoError(t, err)

	s := c.Collect(context.Background())
	assert.True(t, s.Present(model.Temperature))
	assert.Equal(t, model.MilliCelsius(51250), s.Temperature)
}

func TestNewCollectorRejectsBadSpec(t *testing.T) {
	_, err := NewCollector(map[model.MetricKey][]sensor.Spec{
		model.GPUFreq: {{Kind: "bogus"}},
	}, time.Second)
	require.Error(t, err)
	assert.True(t, socerr.IsCode(err, socerr.CodeConfig))
}

func TestStreamCadence(t *testing.T) {
	const interval = 40 * time.Millisecond
	c := newCollector(map[model.MetricKey]sensor.Source{model.CPUUsage: fixed(5)}, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := New(c, interval).Stream(ctx)
	var got []model.Sample
	for len(got) < 4 {
		select {
		case s := <-ch:
			got = append(got, s)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for samples")
		}
	}
	for i := 1; i < len(got); i++ {
		gap := got[i].Timestamp.Sub(got[i-1].Timestamp)
		assert.GreaterOrEqual(t, gap, interval/2, "sample %d", i)
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
