package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	socerr "github.com/Dicklesworthstone/socmon/internal/errors"
	"github.com/Dicklesworthstone/socmon/internal/history"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/sensor"
)

// DefaultTabs is the tab order of the dashboard.
var DefaultTabs = []string{"CPU", "GPU", "NPU", "RGA", "Memory", "Thermal"}

// Config carries runtime options for socmon.
type Config struct {
	Interval     time.Duration // sampling period
	PollInterval time.Duration // UI poll tick
	ReadTimeout  time.Duration // deadline for one round of sensor reads
	HistorySize  int
	Window       time.Duration // minimum chart x-axis span
	Tabs         []string
	DevicePath   string
	Sensors      map[model.MetricKey][]sensor.Spec

	ConfigPath string
	JSON       bool
	LogFile    string
	LogLevel   string
}

func Default() Config {
	return Config{
		Interval:     200 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
		ReadTimeout:  150 * time.Millisecond,
		HistorySize:  history.DefaultSize,
		Window:       120 * time.Second,
		Tabs:         append([]string(nil), DefaultTabs...),
		DevicePath:   sensor.DevicetreeCompatible,
		Sensors:      sensor.DefaultTable(),
		LogLevel:     "info",
	}
}

// FromFlags builds the configuration from defaults, the optional config
// file, SOCMON_* environment variables and flags, in increasing order of
// precedence.
func FromFlags(args []string) (Config, error) {
	cfg := Default()

	var (
		configPath string
		jsonOut    bool
		interval   time.Duration
		logFile    string
		logLevel   string
	)
	fs := pflag.NewFlagSet("socmon", pflag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "YAML file with settings and the sensor capability table")
	fs.BoolVar(&jsonOut, "json", false, "print one JSON snapshot and exit")
	fs.DurationVar(&interval, "interval", cfg.Interval, "sampling period")
	fs.StringVar(&logFile, "log-file", "", "write logs to this file")
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return cfg, socerr.Wrap(socerr.CodeConfig, "parse flags", err)
	}

	if configPath == "" {
		configPath = os.Getenv("SOCMON_CONFIG")
	}
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return cfg, err
		}
		cfg.ConfigPath = configPath
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if fs.Changed("interval") {
		cfg.Interval = interval
	}
	if fs.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	cfg.JSON = jsonOut

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SOCMON_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Bare numbers are taken as milliseconds.
			d, err = time.ParseDuration(v + "ms")
		}
		if err != nil {
			return socerr.Wrap(socerr.CodeConfig, "SOCMON_INTERVAL", err)
		}
		c.Interval = d
	}
	if v := os.Getenv("SOCMON_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("SOCMON_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks ranges and normalises tab names.
func (c *Config) Validate() error {
	switch {
	case c.Interval <= 0:
		return socerr.New(socerr.CodeConfig, "interval must be positive")
	case c.PollInterval <= 0:
		return socerr.New(socerr.CodeConfig, "poll interval must be positive")
	case c.ReadTimeout <= 0:
		return socerr.New(socerr.CodeConfig, "read timeout must be positive")
	case c.HistorySize <= 0:
		return socerr.New(socerr.CodeConfig, "history size must be positive")
	case len(c.Tabs) == 0:
		return socerr.New(socerr.CodeConfig, "at least one tab is required")
	}

	for i, tab := range c.Tabs {
		name, ok := canonicalTab(tab)
		if !ok {
			return socerr.New(socerr.CodeConfig, fmt.Sprintf("unknown tab %q (known: %s)", tab, strings.Join(DefaultTabs, ", ")))
		}
		c.Tabs[i] = name
	}
	return nil
}

func canonicalTab(name string) (string, bool) {
	for _, t := range DefaultTabs {
		if strings.EqualFold(t, name) {
			return t, true
		}
	}
	return "", false
}
