// Package config loads the Zephyrus YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Snapshot formats of the cached route table.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Config holds all Zephyrus configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Router  RouterConfig  `yaml:"router" toml:"router"`
	Cache   CacheConfig   `yaml:"cache" toml:"cache"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// RouterConfig configures route discovery.
type RouterConfig struct {
	// ControllersDir is the controllers source tree whose last
	// modification decides whether the route cache is stale.
	ControllersDir string `yaml:"controllers_dir" toml:"controllers_dir"`
	// FailOnCacheError makes a failed cache write abort start-up instead
	// of continuing with the freshly built table.
	FailOnCacheError bool `yaml:"fail_on_cache_error" toml:"fail_on_cache_error"`
	// Watch rebuilds the table when the controllers tree changes.
	Watch bool `yaml:"watch" toml:"watch"`
}

// CacheConfig configures the route cache store.
type CacheConfig struct {
	Driver    string `yaml:"driver" toml:"driver"` // none, memory, sqlite
	Path      string `yaml:"path" toml:"path"`
	KeyPrefix string `yaml:"key_prefix" toml:"key_prefix"`
	Format    string `yaml:"format" toml:"format"` // json, msgpack
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" toml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development" toml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Router: RouterConfig{ControllersDir: "app/controllers"},
		Cache: CacheConfig{
			Driver: DriverMemory,
			Path:   "var/cache/routes.db",
			Format: FormatJSON,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the file at path over the defaults, then applies environment
// overrides. Files ending in .toml are read as TOML, anything else as YAML.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := unmarshal(path, data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if filepath.Ext(path) == ".toml" {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides fields from ZEPHYRUS_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("ZEPHYRUS_CACHE_DRIVER"); v != "" {
		c.Cache.Driver = v
	}
	if v := os.Getenv("ZEPHYRUS_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("ZEPHYRUS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Cache.Driver {
	case DriverNone, DriverMemory:
	case DriverSQLite:
		if c.Cache.Path == "" {
			errs = append(errs, errors.New("cache.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.driver %q", c.Cache.Driver))
	}

	switch c.Cache.Format {
	case FormatJSON, FormatMsgpack:
	default:
		errs = append(errs, fmt.Errorf("unknown cache.format %q", c.Cache.Format))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Save writes the configuration to path, as TOML when path ends in .toml
// and as YAML otherwise.
func (c *Config) Save(path string) error {
	marshal := yaml.Marshal
	if filepath.Ext(path) == ".toml" {
		marshal = toml.Marshal
	}
	data, err := marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
