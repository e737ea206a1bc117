// Package config loads recipebox settings: built-in defaults, then an
// optional YAML file, then RECIPEBOX_* environment variables. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
)

// Config is the full application configuration.
type Config struct {
	Storage storage.Config `yaml:"storage"`
	Log     LogConfig      `yaml:"log"`
	Server  ServerConfig   `yaml:"server"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"` // off, normal, verbose
	File  string `yaml:"file"`  // empty or "stderr" logs to the console
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DataDir returns the directory recipebox keeps its data in by default.
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "recipebox")
	}
	return ".recipebox"
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// DefaultStoragePath returns where driver keeps its data when no path is
// configured. Drivers that do not use the filesystem get "".
func DefaultStoragePath(driver string) string {
	switch driver {
	case storage.DriverFile:
		return filepath.Join(DataDir(), "recipes")
	case storage.DriverBolt:
		return filepath.Join(DataDir(), "recipes.db")
	case storage.DriverSQLite:
		return filepath.Join(DataDir(), "recipes.sqlite")
	case storage.DriverBadger:
		return filepath.Join(DataDir(), "badger")
	}
	return ""
}

var pathDrivers = []string{storage.DriverFile, storage.DriverBolt, storage.DriverSQLite, storage.DriverBadger}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: storage.Config{
			Driver:      storage.DriverBolt,
			Path:        DefaultStoragePath(storage.DriverBolt),
			Namespace:   "recipebox",
			RedisAddr:   "localhost:6379",
			OpenTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: logger.LevelNormal.String(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, and
// the process environment. An empty path reads DefaultPath if it exists;
// an explicit path must exist.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file; defaults and environment only.
	default:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from RECIPEBOX_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"RECIPEBOX_STORAGE_DRIVER":    &c.Storage.Driver,
		"RECIPEBOX_STORAGE_PATH":      &c.Storage.Path,
		"RECIPEBOX_STORAGE_NAMESPACE": &c.Storage.Namespace,
		"RECIPEBOX_REDIS_ADDR":        &c.Storage.RedisAddr,
		"RECIPEBOX_REDIS_PASSWORD":    &c.Storage.RedisPassword,
		"RECIPEBOX_LOG_LEVEL":         &c.Log.Level,
		"RECIPEBOX_LOG_FILE":          &c.Log.File,
		"RECIPEBOX_SERVER_ADDR":       &c.Server.Addr,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("RECIPEBOX_REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RECIPEBOX_REDIS_DB: %w", err)
		}
		c.Storage.RedisDB = n
	}
	if v, ok := lookup("RECIPEBOX_OPEN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RECIPEBOX_OPEN_TIMEOUT: %w", err)
		}
		c.Storage.OpenTimeout = d
	}
	return nil
}

// Validate lowercases the driver name, moves a default storage path to the
// selected driver's default, and reports settings that cannot work.
func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	for _, d := range pathDrivers {
		if c.Storage.Path == DefaultStoragePath(d) {
			c.Storage.Path = DefaultStoragePath(c.Storage.Driver)
			break
		}
	}

	switch c.Storage.Driver {
	case storage.DriverMemory, storage.DriverRedis:
	case storage.DriverFile, storage.DriverBolt, storage.DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver)
		}
	case storage.DriverBadger:
		// Empty path opens an in-memory database.
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}
