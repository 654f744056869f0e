package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	socerr "github.com/Dicklesworthstone/socmon/internal/errors"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/sensor"
)

// File is the on-disk configuration. Zero fields keep their defaults, and
// metrics missing from Sensors keep the built-in candidate list.
//
//	interval: 200ms
//	tabs: [CPU, GPU, Thermal]
//	sensors:
//	  temperature:
//	    - kind: sysfs_int
//	      path: /sys/class/thermal/thermal_zone1/temp
type File struct {
	Interval     time.Duration            `yaml:"interval"`
	PollInterval time.Duration            `yaml:"poll_interval"`
	ReadTimeout  time.Duration            `yaml:"read_timeout"`
	HistorySize  int                      `yaml:"history_size"`
	Window       time.Duration            `yaml:"window"`
	Tabs         []string                 `yaml:"tabs"`
	Device       string                   `yaml:"device"`
	Sensors      map[string][]sensor.Spec `yaml:"sensors"`
}

// LoadFile merges the YAML file at path into c.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return socerr.Wrap(socerr.CodeConfig, "read config file", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return socerr.Wrap(socerr.CodeConfig, "parse config file "+path, err)
	}
	return c.merge(f)
}

func (c *Config) merge(f File) error {
	if f.Interval > 0 {
		c.Interval = f.Interval
	}
	if f.PollInterval > 0 {
		c.PollInterval = f.PollInterval
	}
	if f.ReadTimeout > 0 {
		c.ReadTimeout = f.ReadTimeout
	}
	if f.HistorySize > 0 {
		c.HistorySize = f.HistorySize
	}
	if f.Window > 0 {
		c.Window = f.Window
	}
	if len(f.Tabs) > 0 {
		c.Tabs = f.Tabs
	}
	if f.Device != "" {
		c.DevicePath = f.Device
	}
	for name, specs := range f.Sensors {
		key, err := model.ParseMetricKey(name)
		if err != nil {
			return socerr.Wrap(socerr.CodeConfig, "sensors", err)
		}
		c.Sensors[key] = specs
	}
	return nil
}
