// Package config holds the run configuration, merged from defaults, an
// optional YAML file, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingOriginal    = errors.New("original root URL is required")
	ErrMissingTarget      = errors.New("target root URL is required")
	ErrMissingCacheDir    = errors.New("cache_dir is required")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrInvalidTimeout     = errors.New("request_timeout must be positive")
)

// Config is the complete run configuration.
type Config struct {
	Original       string   `yaml:"original"`
	Target         string   `yaml:"target"`
	CacheDir       string   `yaml:"cache_dir"`
	Concurrency    int      `yaml:"concurrency"`
	RequestTimeout Duration `yaml:"request_timeout"`
	UserAgent      string   `yaml:"user_agent"`
	Debug          bool     `yaml:"debug"`
	Quiet          bool     `yaml:"quiet"`
}

// Default returns the baseline configuration. The cache directory defaults to
// a fixed location under the OS temp dir so repeated runs share it.
func Default() Config {
	return Config{
		CacheDir:       filepath.Join(os.TempDir(), "mirrorwalk-cache"),
		Concurrency:    8,
		RequestTimeout: DurationFrom(10 * time.Second),
		UserAgent:      "mirrorwalk/1.0",
	}
}

// LoadFile reads a YAML config file over the defaults. Fields absent from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for fatal errors.
func (c Config) Validate() error {
	if c.Original == "" {
		return ErrMissingOriginal
	}
	if c.Target == "" {
		return ErrMissingTarget
	}
	if c.CacheDir == "" {
		return ErrMissingCacheDir
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.RequestTimeout.Duration <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
