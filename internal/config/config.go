// Package config loads waterrun settings from an optional YAML file and
// WATERRUN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/waterrun/internal/notify"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "WATERRUN_"

// Defaults.
const (
	DefaultDatabase = "data/waterrun.db"
	DefaultListen   = ":8080"
)

// Config is the full application configuration.
type Config struct {
	Database   string        `yaml:"database" env:"DATABASE"`
	Listen     string        `yaml:"listen" env:"LISTEN"`
	RosterFile string        `yaml:"roster_file" env:"ROSTER_FILE"`
	Notify     notify.Config `yaml:"notify" envPrefix:"NOTIFY_"`
}

// Load reads path (skipped when empty), applies environment overrides, then
// fills defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseEnv overlays WATERRUN_* environment variables onto target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Notify.APIURL == "" {
		c.Notify.APIURL = notify.DefaultAPIURL
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Notify.MinInterval < 0 {
		return errors.New("config: notify.min_interval must not be negative")
	}
	return nil
}
