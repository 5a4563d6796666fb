package store

import "github.com/tailored-agentic-units/worldbackup/core/record"

// Config holds file store parameters shared by every backup command.
type Config struct {
	Binary bool `json:"binary,omitempty" yaml:"binary,omitempty" env:"WORLDBACKUP_BINARY"` // Write raw UTF-8 lines instead of ASCII-escaped text.
}

// DefaultConfig returns the default store configuration (text mode).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Binary {
		c.Binary = true
	}
}

// Mode returns the record encoding mode selected by the configuration.
func (c *Config) Mode() record.Mode {
	return record.ModeFromBinary(c.Binary)
}
