// Package config loads the application configuration for the autogrow demo
// composer. Configuration is a YAML file; a missing file means defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"autogrow/pkg/autogrow"
)

// Config holds all application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig configures the growing input surface. Durations are
// milliseconds in the file.
type InputConfig struct {
	MinHeight       int `yaml:"min_height"`
	MaxHeight       int `yaml:"max_height"`
	DebounceMs      int `yaml:"debounce_ms"`
	TransitionMs    int `yaml:"transition_ms"`
	TransitionDelta int `yaml:"transition_delta"`
}

// LoggingConfig configures file-based diagnostics.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Dir       string `yaml:"dir"`
	Level     string `yaml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			MinHeight:       1,
			MaxHeight:       10,
			DebounceMs:      40,
			TransitionMs:    120,
			TransitionDelta: 0,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Dir:       ".autogrow/logs",
			Level:     "info",
		},
	}
}

// Load reads the configuration from path. A missing file is not an error;
// defaults are returned. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the bounds the engine will reject anyway, but with file
// context in the message.
func (c *Config) Validate() error {
	in := c.Input
	switch {
	case in.MinHeight <= 0:
		return fmt.Errorf("config: input.min_height must be > 0, got %d", in.MinHeight)
	case in.MaxHeight <= in.MinHeight:
		return fmt.Errorf("config: input.max_height (%d) must be > input.min_height (%d)", in.MaxHeight, in.MinHeight)
	case in.DebounceMs < 0:
		return fmt.Errorf("config: input.debounce_ms must be >= 0, got %d", in.DebounceMs)
	case in.TransitionMs < 0:
		return fmt.Errorf("config: input.transition_ms must be >= 0, got %d", in.TransitionMs)
	case in.TransitionDelta < 0:
		return fmt.Errorf("config: input.transition_delta must be >= 0, got %d", in.TransitionDelta)
	}
	return nil
}

// EngineConfig translates the file representation into the engine's Config.
func (c *Config) EngineConfig() autogrow.Config {
	return autogrow.Config{
		MinHeight:          c.Input.MinHeight,
		MaxHeight:          c.Input.MaxHeight,
		Debounce:           time.Duration(c.Input.DebounceMs) * time.Millisecond,
		TransitionDuration: time.Duration(c.Input.TransitionMs) * time.Millisecond,
		TransitionDelta:    c.Input.TransitionDelta,
	}
}
