package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfigYAML []byte

// Raw-graph source names.
const (
	SourceBackend = "backend"
	SourceAWS     = "aws"
	SourceDemo    = "demo"
)

// Config controls where the raw graph comes from and how often it refreshes.
type Config struct {
	Source          string `yaml:"source"`
	Endpoint        string `yaml:"endpoint"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	Output          string `yaml:"output"`
}

// Interval returns the refresh interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Load reads configuration in precedence order: embedded defaults, then the
// given YAML file (if any), then TOPOMAP_* environment variables. Flags are
// applied on top by the caller.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded default config: %w", err)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TOPOMAP_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("TOPOMAP_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TOPOMAP_INTERVAL_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.IntervalSeconds = seconds
		}
	}
	if v := os.Getenv("TOPOMAP_OUTPUT"); v != "" {
		cfg.Output = v
	}
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceBackend, SourceAWS, SourceDemo:
	default:
		return fmt.Errorf("unknown source %q (want %s, %s, or %s)",
			c.Source, SourceBackend, SourceAWS, SourceDemo)
	}
	if c.Source == SourceBackend && c.Endpoint == "" {
		return fmt.Errorf("source %q requires an endpoint", SourceBackend)
	}
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	return nil
}
