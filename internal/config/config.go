package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aurelhart/lorecast/pkg/scoring"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

// DatabaseConfig configures the SQLite listener profile store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ScoringConfig wraps the engine calibration bundle plus host-side knobs.
type ScoringConfig struct {
	// Engine is the versioned calibration bundle handed to scoring.New.
	Engine scoring.Config `yaml:"engine"`

	// LookupTimeout bounds the listener profile read during personalization.
	LookupTimeout string `yaml:"lookup_timeout"`

	// ExtraPhrases merges additional phrases into built-in pattern
	// categories, keyed "method/category".
	ExtraPhrases map[string][]string `yaml:"extra_phrases"`
}

// ParseLookupTimeout returns the profile lookup budget as a time.Duration.
func (s ScoringConfig) ParseLookupTimeout() (time.Duration, error) {
	if s.LookupTimeout == "" {
		return 50 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s.LookupTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse lookup_timeout %q: %w", s.LookupTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("lookup_timeout %q must be positive", s.LookupTimeout)
	}
	return d, nil
}

// Default returns a Config with the reference calibration and sensible host
// defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./lorecast.db"},
		Server:   ServerConfig{Port: 8080},
		Scoring: ScoringConfig{
			Engine:        scoring.DefaultConfig(),
			LookupTimeout: "50ms",
		},
	}
}

// Load reads configuration from a YAML file over the defaults and applies
// env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// EngineConfig resolves the complete scoring configuration, including the
// parsed lookup timeout. Validation itself happens in scoring.New.
func (c *Config) EngineConfig() (scoring.Config, error) {
	eng := c.Scoring.Engine
	timeout, err := c.Scoring.ParseLookupTimeout()
	if err != nil {
		return scoring.Config{}, err
	}
	eng.Personal.LookupTimeout = timeout
	return eng, nil
}

// BuildLibrary resolves the pattern library with any configured extras.
func (c *Config) BuildLibrary() (scoring.Library, error) {
	return scoring.DefaultLibrary().WithExtraPhrases(c.Scoring.ExtraPhrases)
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LORECAST_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LORECAST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LORECAST_LOOKUP_TIMEOUT"); v != "" {
		cfg.Scoring.LookupTimeout = v
	}
}
