package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/worldbackup/observability"
	"github.com/tailored-agentic-units/worldbackup/store"
	"github.com/tailored-agentic-units/worldbackup/world"
)

const defaultObserver = "slog"

// Config holds initialization parameters for a backup run.
type Config struct {
	World       world.Config `json:"world" yaml:"world"`
	Store       store.Config `json:"store" yaml:"store"`
	Observer    string       `json:"observer,omitempty" yaml:"observer,omitempty" env:"WORLDBACKUP_OBSERVER"`
	MetricsFile string       `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" env:"WORLDBACKUP_METRICS_FILE"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		World:    world.DefaultConfig(),
		Store:    store.DefaultConfig(),
		Observer: defaultObserver,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.World.Merge(&source.World)
	c.Store.Merge(&source.Store)

	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.MetricsFile != "" {
		c.MetricsFile = source.MetricsFile
	}
}

// Validate reports configuration that cannot produce a working run.
func (c *Config) Validate() error {
	if c.World.Driver == "" {
		return fmt.Errorf("%w: world driver is empty", ErrInvalidConfig)
	}
	if _, err := observability.GetObserver(c.Observer); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overrides c with any WORLDBACKUP_* environment variables that
// are set.
func ApplyEnv(c *Config) error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig reads a JSON or YAML config file (chosen by extension), merges
// it with defaults, and applies environment overrides.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
