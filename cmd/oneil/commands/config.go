package commands

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds CLI settings: defaults, overridden by the YAML file
// named with --config, with ONEIL_LOG_LEVEL overriding the log level
// from either.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"logLevel" default:"warn"`

	// Extensions are the model file extensions tried when an import
	// target has none.
	Extensions []string `yaml:"extensions"`

	// NoColor disables coloured test output.
	NoColor bool `yaml:"noColor"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}
	cfg.Extensions = []string{".on.json", ".on"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if lvl := os.Getenv("ONEIL_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)

	return cfg, nil
}
