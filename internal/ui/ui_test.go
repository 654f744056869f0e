package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/socmon/internal/config"
	"github.com/Dicklesworthstone/socmon/internal/history"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/series"
)

func newTestModel(t *testing.T) (*Model, chan model.Sample, *bool) {
	t.Helper()
	ch := make(chan model.Sample, 16)
	cancelled := false
	m := New(config.Default(), ch, func() { cancelled = true }, "rockchip,rk3588")
	return m, ch, &cancelled
}

func sampleAt(ts time.Time) model.Sample {
	s := model.Sample{Timestamp: ts}
	s.Set(model.CPUUsage, 42)
	s.Set(model.CPUFreq, 1_800_000_000)
	s.Set(model.Temperature, 45_000)
	return s
}

func TestPollDrainsStream(t *testing.T) {
	m, ch, _ := newTestModel(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		ch <- sampleAt(now.Add(time.Duration(i) * 200 * time.Millisecond))
	}

	_, cmd := m.Update(pollMsg{})
	assert.NotNil(t, cmd, "poll must re-arm")
	assert.Equal(t, 3, m.history.Len())

	// Nothing waiting: poll returns without blocking.
	_, cmd = m.Update(pollMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 3, m.history.Len())
}

func TestPollAfterStreamClosed(t *testing.T) {
	m, ch, _ := newTestModel(t)
	ch <- sampleAt(time.Now())
	close(ch)

	m.Update(pollMsg{})
	assert.Equal(t, 1, m.history.Len())
	assert.Nil(t, m.stream)
	m.Update(pollMsg{})
	assert.Equal(t, 1, m.history.Len())
}

func TestKeyDispatch(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.KeyMsg
		want int
	}{
		{"right", []tea.KeyMsg{{Type: tea.KeyRight}}, 1},
		{"tab", []tea.KeyMsg{{Type: tea.KeyTab}}, 1},
		{"left wraps", []tea.KeyMsg{{Type: tea.KeyLeft}}, 5},
		{"shift+tab wraps", []tea.KeyMsg{{Type: tea.KeyShiftTab}}, 5},
		{"right then left", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyLeft}}, 0},
		{"other keys ignored", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("x")}, {Type: tea.KeyUp}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, cancelled := newTestModel(t)
			for _, msg := range tt.msgs {
				_, cmd := m.Update(msg)
				assert.Nil(t, cmd)
			}
			assert.Equal(t, tt.want, m.nav.Index())
			assert.False(t, *cancelled)
		})
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(msg.String(), func(t *testing.T) {
			m, _, cancelled := newTestModel(t)
			_, cmd := m.Update(msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, *cancelled)
		})
	}
}

func TestWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	assert.Equal(t, 200, m.width)
	assert.Equal(t, 60, m.height)
}

func TestViewBeforeData(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "System Monitor - rockchip,rk3588")
	assert.Contains(t, out, collecting)
	for _, tab := range config.DefaultTabs {
		assert.Contains(t, out, tab)
	}
	assert.Contains(t, out, "CPU Usage (%)")
}

func TestViewStatusLine(t *testing.T) {
	m, ch, _ := newTestModel(t)
	ts := time.Date(2024, 5, 1, 13, 4, 5, 0, time.Local)
	ch <- sampleAt(ts)
	m.Update(pollMsg{})

	out := m.View()
	assert.Contains(t, out, "CPU Usage: 42.0%")
	assert.Contains(t, out, "Frequency: 1800 MHz")
	assert.Contains(t, out, "Last Update: 13:04:05")
	assert.NotContains(t, out, collecting)

	// GPU readings were never present.
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out = m.View()
	assert.Contains(t, out, "GPU Usage: n/a")
	assert.Contains(t, out, "GPU Frequency (MHz)")
}

func TestViewRGAGrid(t *testing.T) {
	m, _, _ := newTestModel(t)
	for i := 0; i < 3; i++ {
		m.nav.Next()
	}
	require.Equal(t, "RGA", m.nav.Current())
	out := m.View()
	for _, title := range []string{"RGA Usage (%)", "ACLK Frequency (MHz)", "Core Frequency (MHz)", "HCLK Frequency (MHz)"} {
		assert.Contains(t, out, title)
	}
}

func TestFormatValue(t *testing.T) {
	s := sampleAt(time.Now())
	s.Set(model.FanState, 3)
	assert.Equal(t, "42.0%", formatValue(model.CPUUsage, s))
	assert.Equal(t, "1800 MHz", formatValue(model.CPUFreq, s))
	assert.Equal(t, "45.0°C", formatValue(model.Temperature, s))
	assert.Equal(t, "3", formatValue(model.FanState, s))
	assert.Equal(t, notAvail, formatValue(model.SwapUsage, s))
}

func TestChartTime(t *testing.T) {
	period := 200 * time.Millisecond
	assert.Equal(t, int64(0), chartTime(0, period).Unix())
	assert.Equal(t, int64(5), chartTime(1.0, period).Unix())
	assert.Equal(t, int64(600), chartTime(120, period).Unix())
}

func TestRunsSplitAtGaps(t *testing.T) {
	period := 200 * time.Millisecond
	pts := []series.Point{{X: 0, Y: 1}, {X: 0.2, Y: 1}, {X: 1.0, Y: 2}, {X: 1.2, Y: 2}, {X: 2.0, Y: 3}}
	got := runs(pts, period)
	require.Len(t, got, 3)
	assert.Equal(t, pts[0:2], got[0])
	assert.Equal(t, pts[2:4], got[1])
	assert.Equal(t, pts[4:5], got[2])

	assert.Empty(t, runs(nil, period))
	assert.Len(t, runs(pts[:2], period), 1)
}

func TestChartLeavesGapForAbsentReadings(t *testing.T) {
	period := 200 * time.Millisecond
	full := history.New(300)
	gappy := history.New(300)
	start := time.Now()
	for i := 0; i < 300; i++ {
		s := model.Sample{Timestamp: start.Add(time.Duration(i) * period)}
		s.Set(model.MemUsage, 50)
		full.Append(s)
		if i > 50 && i <= 250 {
			s = model.Sample{Timestamp: s.Timestamp}
		}
		gappy.Append(s)
	}

	xMax := series.XMax(300, period, 120*time.Second)
	render := func(h *history.Store) string {
		return renderChart(series.Project(h, model.MemUsage, period), xMax, period, 80, 10, chartColors[0])
	}
	assert.NotEqual(t, render(full), render(gappy))
}
