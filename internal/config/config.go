// Package config loads the pftabler configuration file. Thresholds are
// whole seconds in the file, matching what pfctl itself speaks.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pftabler/internal/policy"
)

const (
	DefaultPfctl     = "/sbin/pfctl"
	DefaultDirectory = "/var/pf"

	// one day, the historical default for persistent tables
	DefaultExpiration = 86400
)

type EnrichConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Pfctl      string           `yaml:"pfctl"`
	Directory  string           `yaml:"directory"`
	Expiration int64            `yaml:"expiration"`
	Overrides  map[string]int64 `yaml:"overrides"`
	Enrich     EnrichConfig     `yaml:"enrich"`
}

func Default() *Config {
	return &Config{
		Pfctl:      DefaultPfctl,
		Directory:  DefaultDirectory,
		Expiration: DefaultExpiration,
	}
}

// Load parses YAML from r on top of the defaults and validates the
// result. Zero or negative thresholds are a configuration error, not
// something to fix up silently.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads path, or returns the defaults when the file does not
// exist so a bare install still runs with the stock one-day policy.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (c *Config) validate() error {
	if c.Pfctl == "" {
		c.Pfctl = DefaultPfctl
	}
	if c.Directory == "" {
		c.Directory = DefaultDirectory
	}
	if c.Expiration <= 0 {
		return fmt.Errorf("config: expiration must be positive, got %d", c.Expiration)
	}
	for name, secs := range c.Overrides {
		if secs <= 0 {
			return fmt.Errorf("config: override for table %q must be positive, got %d", name, secs)
		}
	}
	return nil
}

// Policy converts the file's second-resolution thresholds into the
// evaluator's configuration.
func (c *Config) Policy() *policy.Config {
	p := &policy.Config{Default: time.Duration(c.Expiration) * time.Second}
	if len(c.Overrides) > 0 {
		p.Overrides = make(map[string]time.Duration, len(c.Overrides))
		for name, secs := range c.Overrides {
			p.Overrides[name] = time.Duration(secs) * time.Second
		}
	}
	return p
}
