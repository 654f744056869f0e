package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/series"
)

type panel struct {
	title string // chart card title
	label string // status line label
	key   model.MetricKey
}

var tabPanels = map[string][]panel{
	"CPU": {
		{"CPU Usage (%)", "CPU Usage", model.CPUUsage},
		{"CPU Frequency (MHz)", "Frequency", model.CPUFreq},
	},
	"GPU": {
		{"GPU Usage (%)", "GPU Usage", model.GPUUsage},
		{"GPU Frequency (MHz)", "Frequency", model.GPUFreq},
	},
	"NPU": {
		{"NPU Usage (%)", "NPU Usage", model.NPUUsage},
		{"NPU Frequency (MHz)", "Frequency", model.NPUFreq},
	},
	"RGA": {
		{"RGA Usage (%)", "RGA Usage", model.RGAUsage},
		{"ACLK Frequency (MHz)", "ACLK", model.RGAAclkFreq},
		{"Core Frequency (MHz)", "Core", model.RGACoreFreq},
		{"HCLK Frequency (MHz)", "HCLK", model.RGAHclkFreq},
	},
	"Memory": {
		{"Memory Usage (%)", "Memory Usage", model.MemUsage},
		{"Swap Usage (%)", "Swap Usage", model.SwapUsage},
	},
	"Thermal": {
		{"Temperature (°C)", "Temperature", model.Temperature},
		{"Fan State", "Fan State", model.FanState},
	},
}

const (
	collecting = "Collecting system data..."
	notAvail   = "n/a"
	// title, tab strip and status line
	headerLines = 4
	// card border and title
	cardChrome = 3
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	chartLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	chartColors = []lipgloss.Color{"#E281FE", "#F6B784", "#7FD1AE", "#82AAFF"}
)

func (m *Model) View() string {
	header := titleStyle.Render("System Monitor - "+m.device) + "  " + m.help.View(m.keys)
	body := m.renderPanels(tabPanels[m.nav.Current()])
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderTabs(), m.renderStatus(), body)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, m.nav.Count())
	for i, name := range m.nav.Tabs() {
		if i == m.nav.Index() {
			tabs = append(tabs, activeTab.Render(name))
		} else {
			tabs = append(tabs, inactiveTab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

// renderStatus shows the latest value of each panel on the active tab.
func (m *Model) renderStatus() string {
	latest, ok := m.history.Latest()
	if !ok {
		return subtleStyle.Render(collecting)
	}
	panels := tabPanels[m.nav.Current()]
	parts := make([]string, 0, len(panels)+1)
	for _, p := range panels {
		parts = append(parts, p.label+": "+formatValue(p.key, latest))
	}
	parts = append(parts, "Last Update: "+latest.Timestamp.Format(time.TimeOnly))
	return labelStyle.Render("Current Values") + "  " + strings.Join(parts, " | ")
}

func formatValue(k model.MetricKey, s model.Sample) string {
	v, ok := s.Display(k)
	if !ok {
		return notAvail
	}
	switch k.Unit() {
	case "%":
		return fmt.Sprintf("%.1f%%", v)
	case "MHz":
		return fmt.Sprintf("%.0f MHz", v)
	case "°C":
		return fmt.Sprintf("%.1f°C", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// renderPanels lays out up to two panels stacked, or four in a 2x2 grid.
func (m *Model) renderPanels(panels []panel) string {
	if len(panels) == 0 {
		return ""
	}
	cols := 1
	if len(panels) > 2 {
		cols = 2
	}
	rows := (len(panels) + cols - 1) / cols

	w := max(m.width/cols-4, 20)
	h := max((m.height-headerLines)/rows-cardChrome, 4)
	xMax := series.XMax(m.history.Len(), m.cfg.Interval, m.cfg.Window)

	cards := make([]string, len(panels))
	for i, p := range panels {
		s := series.Project(m.history, p.key, m.cfg.Interval)
		chart := renderChart(s, xMax, m.cfg.Interval, w, h, chartColors[i%len(chartColors)])
		cards[i] = cardStyle.Render(labelStyle.Render(p.title) + "\n" + chart)
	}

	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		end := min((r+1)*cols, len(cards))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards[r*cols:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// ntcharts keys time points by whole Unix seconds, so the chart clock runs
// one second per sample period and the x labels convert back to elapsed
// seconds.
func chartTime(x float64, period time.Duration) time.Time {
	return time.Unix(int64(math.Round(x/period.Seconds())), 0)
}

func renderChart(s series.Series, xMax float64, period time.Duration, w, h int, color lipgloss.Color) string {
	c := timeserieslinechart.New(w, h,
		timeserieslinechart.WithTimeRange(chartTime(0, period), chartTime(xMax, period)),
		timeserieslinechart.WithYRange(s.Bounds.Lower, s.Bounds.Upper),
		timeserieslinechart.WithAxesStyles(axisStyle, chartLabel),
		timeserieslinechart.WithStyle(lipgloss.NewStyle().Foreground(color)),
		timeserieslinechart.WithXLabelFormatter(func(_ int, v float64) string {
			return fmt.Sprintf("%.0fs", v*period.Seconds())
		}),
		timeserieslinechart.WithYLabelFormatter(func(_ int, v float64) string {
			return fmt.Sprintf("%.0f", v)
		}),
		timeserieslinechart.WithXYSteps(4, 3),
	)
	// Each contiguous run is its own dataset so absent readings stay a gap
	// instead of being bridged by a line.
	style := lipgloss.NewStyle().Foreground(color)
	for i, run := range runs(s.Points, period) {
		name := fmt.Sprintf("run%d", i)
		for _, p := range run {
			c.PushDataSet(name, timeserieslinechart.TimePoint{Time: chartTime(p.X, period), Value: p.Y})
		}
		c.SetDataSetStyle(name, style)
	}
	c.DrawBrailleAll()
	return c.View()
}

// runs splits points wherever consecutive samples are more than one period
// apart.
func runs(points []series.Point, period time.Duration) [][]series.Point {
	var out [][]series.Point
	maxStep := 1.5 * period.Seconds()
	start := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].X-points[i-1].X > maxStep {
			if i > start {
				out = append(out, points[start:i])
			}
			start = i
		}
	}
	return out
}
