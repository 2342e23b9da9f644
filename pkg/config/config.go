// Package config loads printqueue settings.
//
// Settings are layered: built-in defaults, then a TOML file, then
// PRINTQUEUE_* environment variables. Command-line flags are applied last by
// the CLI itself.
//
//	strategy = "stack"
//	workers  = 4
//
//	[cache]
//	dir       = "/var/cache/printqueue"
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "24h"   # "0s" never expires
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

// AppName is used for config and cache directory names.
const AppName = "printqueue"

// Environment variables read by ApplyEnv.
const (
	EnvStrategy = "PRINTQUEUE_STRATEGY"
	EnvWorkers  = "PRINTQUEUE_WORKERS"
	EnvCacheDir = "PRINTQUEUE_CACHE_DIR"
	EnvRedisURL = "PRINTQUEUE_REDIS_URL"
	EnvAddr     = "PRINTQUEUE_ADDR"
)

// Duration is a time.Duration that decodes from strings like "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config holds every tunable setting.
type Config struct {
	Strategy string       `toml:"strategy"`
	Workers  int          `toml:"workers"`
	Cache    CacheConfig  `toml:"cache"`
	Server   ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	// Dir is the file cache directory. Empty selects the XDG default.
	Dir string `toml:"dir"`
	// RedisURL, when set, selects the Redis backend instead of files.
	RedisURL string `toml:"redis_url"`
	// TTL bounds how long a result stays cached. "0s" keeps entries until
	// they are cleared.
	TTL Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Strategy: dag.Stack.String(),
		Workers:  1,
		Cache:    CacheConfig{TTL: Duration{7 * 24 * time.Hour}},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load returns Default overlaid with the TOML file at path and the
// environment. An empty path uses DefaultPath; a missing file at the
// default path is not an error, but a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "load %s", path)
			}
			if explicit {
				return cfg, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from PRINTQUEUE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvStrategy); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s", EnvWorkers)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := dag.ParseStrategy(c.Strategy); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidStrategy, err, "strategy")
	}
	if err := perrors.ValidateWorkers(c.Workers); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}

// ParsedStrategy returns the configured tie-break strategy.
// Call Validate first; invalid names fall back to dag.Stack.
func (c Config) ParsedStrategy() dag.Strategy {
	s, _ := dag.ParseStrategy(c.Strategy)
	return s
}

// DefaultPath returns $XDG_CONFIG_HOME/printqueue/config.toml, falling back
// to ~/.config/printqueue/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/printqueue, or ~/.cache/printqueue.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
