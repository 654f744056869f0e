package snapshot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/socmon/internal/model"
)

func fullSample(ts time.Time) model.Sample {
	s := model.Sample{Timestamp: ts}
	for _, k := range model.AllMetrics() {
		s.Set(k, 1)
	}
	s.Set(model.CPUUsage, 12.5)
	s.Set(model.CPUFreq, 1_800_000_000)
	s.Set(model.Temperature, 45_000)
	s.Set(model.FanState, 2)
	return s
}

func TestMarshalKeys(t *testing.T) {
	b, err := Marshal(fullSample(time.Now()))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	for _, k := range model.AllMetrics() {
		assert.Contains(t, got, k.String())
	}
	assert.Contains(t, got, "timestamp")
	assert.NotContains(t, got, "unavailable")

	assert.Equal(t, 12.5, got["cpu_usage"])
	assert.Equal(t, 1.8e9, got["cpu_freq"])
	assert.Equal(t, 45000.0, got["temperature"])
	assert.Equal(t, 2.0, got["fan_state"])
}

func TestRecordTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 4, 5, 123456789, time.FixedZone("CST", 8*3600))
	r := FromSample(fullSample(ts))
	parsed, err := time.Parse(TimeFormat, r.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
	assert.Contains(t, r.Timestamp, ".123456789 ")
}

func TestUnavailableSorted(t *testing.T) {
	s := model.Sample{Timestamp: time.Now()}
	s.Set(model.CPUUsage, 3)
	r := FromSample(s)

	assert.Len(t, r.Unavailable, len(model.AllMetrics())-1)
	assert.IsNonDecreasing(t, r.Unavailable)
	assert.NotContains(t, r.Unavailable, "cpu_usage")
	assert.Contains(t, r.Unavailable, "swap_usage")
	assert.Zero(t, r.GPUFreq)
}

type countingCollector struct {
	calls []time.Time
}

func (c *countingCollector) Collect(context.Context) model.Sample {
	now := time.Now()
	c.calls = append(c.calls, now)
	s := model.Sample{Timestamp: now}
	s.Set(model.CPUUsage, float64(len(c.calls)))
	return s
}

func TestTakeCollectsTwice(t *testing.T) {
	c := &countingCollector{}
	s := Take(context.Background(), c, 20*time.Millisecond)
	require.Len(t, c.calls, 2)
	assert.GreaterOrEqual(t, c.calls[1].Sub(c.calls[0]), 20*time.Millisecond)
	v, ok := s.Raw(model.CPUUsage)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestTakeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &countingCollector{}
	start := time.Now()
	Take(ctx, c, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, c.calls, 2)
}
