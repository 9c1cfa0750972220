// Package config handles elkhorn configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/HartBrook/elkhorn/internal/errors"
	"gopkg.in/yaml.v3"
)

// CacheConfig contains content cache and registry settings.
type CacheConfig struct {
	TTL           string `yaml:"ttl"`                      // e.g., "24h"
	MaxSizeBytes  int64  `yaml:"max_size_bytes,omitempty"` // content cache byte cap
	MaxRepos      int    `yaml:"max_repositories,omitempty"`
	SweepInterval string `yaml:"sweep_interval,omitempty"` // housekeeping cadence
}

// GitConfig contains subprocess settings.
type GitConfig struct {
	Binary      string `yaml:"binary,omitempty"`       // defaults to "git"
	Timeout     string `yaml:"timeout,omitempty"`      // per-command deadline
	OutputLimit int64  `yaml:"output_limit,omitempty"` // captured output cap in bytes
}

// Config represents the elkhorn configuration file.
type Config struct {
	Version int         `yaml:"version"`
	Cache   CacheConfig `yaml:"cache"`
	Git     GitConfig   `yaml:"git,omitempty"`
}

// Default values.
const (
	DefaultVersion       = 1
	DefaultCacheTTL      = "24h"
	DefaultMaxSizeBytes  = 100 * 1024 * 1024 // 100 MiB
	DefaultMaxRepos      = 10
	DefaultSweepInterval = "5m"
	DefaultGitBinary     = "git"
	DefaultGitTimeout    = "5m"
	DefaultOutputLimit   = 10 * 1024 * 1024 // 10 MiB
)

// Load reads and validates config from the default location.
func Load() (*Config, error) {
	paths := NewPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadFrom reads and validates config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault returns the config at the default location, or a fully
// defaulted config if none exists. CLI commands use this so elkhorn works
// out of the box without an init step.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if ee, ok := err.(*errors.ElkhornError); ok && ee.Code == errors.ErrConfigNotFound {
			return NewDefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the default location.
func Save(cfg *Config) error {
	paths := NewPaths()
	return SaveTo(cfg, paths.ConfigFile)
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, DefaultFileMode)
}

// Validate checks config for required fields and valid values.
func (c *Config) Validate() error {
	for field, value := range map[string]string{
		"cache.ttl":            c.Cache.TTL,
		"cache.sweep_interval": c.Cache.SweepInterval,
		"git.timeout":          c.Git.Timeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return errors.ConfigInvalid("invalid " + field + " format, use Go duration format (e.g., 24h)")
		}
	}

	if c.Cache.MaxSizeBytes < 0 {
		return errors.ConfigInvalid("cache.max_size_bytes must not be negative")
	}
	if c.Cache.MaxRepos < 0 {
		return errors.ConfigInvalid("cache.max_repositories must not be negative")
	}
	if c.Git.OutputLimit < 0 {
		return errors.ConfigInvalid("git.output_limit must not be negative")
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxSizeBytes == 0 {
		c.Cache.MaxSizeBytes = DefaultMaxSizeBytes
	}
	if c.Cache.MaxRepos == 0 {
		c.Cache.MaxRepos = DefaultMaxRepos
	}
	if c.Cache.SweepInterval == "" {
		c.Cache.SweepInterval = DefaultSweepInterval
	}
	if c.Git.Binary == "" {
		c.Git.Binary = DefaultGitBinary
	}
	if c.Git.Timeout == "" {
		c.Git.Timeout = DefaultGitTimeout
	}
	if c.Git.OutputLimit == 0 {
		c.Git.OutputLimit = DefaultOutputLimit
	}
}

// NewDefaultConfig creates a config with all defaults applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// TTLDuration returns the cache TTL as a time.Duration.
func (c *CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		d, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return d
}

// SweepIntervalDuration returns the housekeeping cadence as a time.Duration.
func (c *CacheConfig) SweepIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		d, _ = time.ParseDuration(DefaultSweepInterval)
	}
	return d
}

// TimeoutDuration returns the git subprocess timeout as a time.Duration.
func (c *GitConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultGitTimeout)
	}
	return d
}

// Exists checks if a config file exists at the default location.
func Exists() bool {
	paths := NewPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}
