package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gdsim/gdsim/gerror"
)

// Config is the host-tunable simulation configuration.
type Config struct {
	// TickRate is the simulated ticks per second.
	TickRate int `yaml:"tick_rate"`
	// VisiblePadding is the bucket radius around the player that the
	// parallel passes cover.
	VisiblePadding int `yaml:"visible_padding"`

	// Statsview serves the runtime metrics dashboard when enabled.
	Statsview     bool   `yaml:"statsview"`
	StatsviewAddr string `yaml:"statsview_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TickRate:       240,
		VisiblePadding: 4,
		StatsviewAddr:  "localhost:18066",
		LogLevel:       "info",
	}
}

// Load reads a yaml config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, gerror.New("read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, gerror.New("parse config %s: %v", path, err)
	}
	if cfg.TickRate <= 0 {
		return cfg, gerror.New("config %s: tick_rate must be positive, got %d", path, cfg.TickRate)
	}
	return cfg, nil
}
