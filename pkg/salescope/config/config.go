// Package config loads engine configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marketpulse/salescope/pkg/salescope/internalerr"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// Config holds the ingestion settings.
type Config struct {
	// DB is the SQLite database path.
	DB string `yaml:"db"`

	// Workers is the batch parallelism; files are independent, only the
	// per-identity write transaction serializes.
	Workers int `yaml:"workers"`

	// IdentityPolicy selects how re-ingestion supersedes: "content"
	// (week-ending date plus region when recoverable) or "filename".
	IdentityPolicy string `yaml:"identity_policy"`

	// IngestTimeout bounds one file's ingestion; zero disables.
	IngestTimeout Duration `yaml:"ingest_timeout"`
}

// Duration decodes YAML duration strings like "90s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DB:             "salescope.db",
		Workers:        4,
		IdentityPolicy: string(store.PolicyContent),
	}
}

// Load reads a YAML config file. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("%w: db path is empty", internalerr.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", internalerr.ErrInvalidConfig)
	}
	switch store.IdentityPolicy(c.IdentityPolicy) {
	case store.PolicyContent, store.PolicyFilename:
	default:
		return fmt.Errorf("%w: unknown identity policy %q", internalerr.ErrInvalidConfig, c.IdentityPolicy)
	}
	if c.IngestTimeout < 0 {
		return fmt.Errorf("%w: ingest timeout is negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Policy returns the typed identity policy.
func (c Config) Policy() store.IdentityPolicy {
	return store.IdentityPolicy(c.IdentityPolicy)
}
