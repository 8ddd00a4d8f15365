// Package config loads the server configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"monster-maker/internal/geom"
	"monster-maker/internal/record"
)

// Config holds the full server configuration.
type Config struct {
	SSHAddr   string       `yaml:"ssh_addr"`
	HTTPAddr  string       `yaml:"http_addr"`
	HostKey   string       `yaml:"host_key"`
	TickRate  int          `yaml:"tick_rate"`
	Seed      uint64       `yaml:"seed"` // 0 seeds from the clock
	PublicURL string       `yaml:"public_url"`
	Record    RecordConfig `yaml:"record"`
}

// RecordConfig configures preview recordings.
type RecordConfig struct {
	FPS       int `yaml:"fps"`
	MaxFrames int `yaml:"max_frames"`
	Width     int `yaml:"width"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SSHAddr:  ":2222",
		HTTPAddr: ":8080",
		HostKey:  "host_key",
		TickRate: 20,
		Record: RecordConfig{
			FPS:       10,
			MaxFrames: 100,
			Width:     400,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error. PORT in the environment overrides the SSH port.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.SSHAddr = ":" + port
	}
}

// Validate checks required fields and bounds the numeric ones.
func (c *Config) Validate() error {
	if c.SSHAddr == "" {
		return fmt.Errorf("ssh_addr is required")
	}
	if c.HostKey == "" {
		return fmt.Errorf("host_key is required")
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be > 0")
	}
	c.TickRate = geom.ClampValue(c.TickRate, 1, 60)
	c.Record.FPS = geom.ClampValue(c.Record.FPS, 1, 50)
	c.Record.MaxFrames = geom.ClampValue(c.Record.MaxFrames, 1, 1000)
	c.Record.Width = geom.ClampValue(c.Record.Width, 16, record.MaxWidth)
	return nil
}

// RecordOptions converts the record section for the recorder.
func (c *Config) RecordOptions() record.Options {
	return record.Options{
		FPS:       c.Record.FPS,
		MaxFrames: c.Record.MaxFrames,
		Width:     c.Record.Width,
	}
}
