// Package config loads server and drafting tunables from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"bazar/internal/draft"
)

// Config holds the service configuration. Missing fields keep their
// defaults, which match the behavior observed across the edit screens.
type Config struct {
	Port       int    `yaml:"port"`
	DBPath     string `yaml:"db_path"`
	BackendURL string `yaml:"backend_url"`

	DebounceMs     int     `yaml:"debounce_ms"`
	MinTermLength  int     `yaml:"min_term_length"`
	PageSize       int     `yaml:"page_size"`
	TaxRate        float64 `yaml:"tax_rate"`
	SuccessPauseMs int     `yaml:"success_pause_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           9000,
		DBPath:         "bazar.db",
		DebounceMs:     400,
		MinTermLength:  3,
		PageSize:       20,
		TaxRate:        0.19,
		SuccessPauseMs: 1500,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config read failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse failed: %w", err)
	}
	return cfg, nil
}

// DraftConfig converts the tunables into the drafting core's config.
func (c Config) DraftConfig() draft.Config {
	return draft.Config{
		DebounceDelay: time.Duration(c.DebounceMs) * time.Millisecond,
		MinTermLength: c.MinTermLength,
		PageSize:      c.PageSize,
		TaxRate:       c.TaxRate,
		SuccessPause:  time.Duration(c.SuccessPauseMs) * time.Millisecond,
	}
}
