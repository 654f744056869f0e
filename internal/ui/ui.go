package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/socmon/internal/config"
	socerr "github.com/Dicklesworthstone/socmon/internal/errors"
	"github.com/Dicklesworthstone/socmon/internal/history"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/nav"
	"github.com/Dicklesworthstone/socmon/internal/sampler"
	"github.com/Dicklesworthstone/socmon/internal/sensor"
)

// Model is the dashboard event loop. It is the only owner of the history
// and the tab state, so neither needs locking.
type Model struct {
	cfg     config.Config
	history *history.Store
	nav     *nav.State
	stream  <-chan model.Sample
	cancel  context.CancelFunc
	device  string
	keys    keyMap
	help    help.Model
	width   int
	height  int
}

// New returns a Model consuming samples from stream. cancel stops the
// producer on quit.
func New(cfg config.Config, stream <-chan model.Sample, cancel context.CancelFunc, device string) *Model {
	return &Model{
		cfg:     cfg,
		history: history.New(cfg.HistorySize),
		nav:     nav.New(cfg.Tabs),
		stream:  stream,
		cancel:  cancel,
		device:  device,
		keys:    keys,
		help:    help.New(),
		width:   120,
		height:  40,
	}
}

type pollMsg struct{}

func (m *Model) pollCmd() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m *Model) Init() tea.Cmd { return m.pollCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.nav.Previous()
		case key.Matches(msg, m.keys.Next):
			m.nav.Next()
		}
	case pollMsg:
		m.drain()
		return m, m.pollCmd()
	}
	return m, nil
}

// drain moves every sample already waiting on the stream into history
// without blocking.
func (m *Model) drain() {
	for m.stream != nil {
		select {
		case samp, ok := <-m.stream:
			if !ok {
				m.stream = nil
				return
			}
			m.history.Append(samp)
		default:
			return
		}
	}
}

// RunTUI starts sampling and the Bubble Tea program, and blocks until the
// user quits.
func RunTUI(cfg config.Config) error {
	collector, err := sampler.NewCollector(cfg.Sensors, cfg.ReadTimeout)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infoCtx, infoCancel := context.WithTimeout(ctx, time.Second)
	device := sensor.DeviceInfo(infoCtx, sensor.NewFileReader(), cfg.DevicePath)
	infoCancel()

	stream := sampler.New(collector, cfg.Interval).Stream(ctx)
	slog.Info("dashboard started", "device", device, "interval", cfg.Interval, "tabs", cfg.Tabs)

	prog := tea.NewProgram(New(cfg, stream, cancel, device), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return socerr.Wrap(socerr.CodeTerminal, "run dashboard", err)
	}
	slog.Info("dashboard stopped")
	return nil
}
