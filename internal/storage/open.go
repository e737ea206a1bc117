package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Driver        string        `yaml:"driver"`
	Path          string        `yaml:"path"` // file/dir for file, bolt, sqlite, badger
	Namespace     string        `yaml:"namespace"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	OpenTimeout   time.Duration `yaml:"openTimeout"`
}

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (domain.KeyValueStore, error) {
	driver := strings.ToLower(cfg.Driver)
	log.Debug("opening %s store", driver)

	switch driver {
	case DriverMemory:
		return NewMemoryStore(log), nil
	case DriverFile:
		return NewFileStore(cfg.Path, log)
	case DriverBolt, "":
		if err := ensureParent(cfg.Path); err != nil {
			return nil, err
		}
		return NewBoltStore(cfg.Path, cfg.OpenTimeout, log)
	case DriverSQLite:
		if err := ensureParent(cfg.Path); err != nil {
			return nil, err
		}
		return NewSQLiteStore(cfg.Path, log)
	case DriverBadger:
		return NewBadgerStore(cfg.Path, log)
	case DriverRedis:
		if cfg.OpenTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.OpenTimeout)
			defer cancel()
		}
		return NewRedisStore(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: cfg.Namespace,
		}, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// WatchPath returns the filesystem path whose changes signal that the
// collection may have been rewritten by another process. ok is false for
// backends that cannot be watched.
func WatchPath(cfg Config) (path string, ok bool) {
	switch strings.ToLower(cfg.Driver) {
	case DriverFile:
		return filepath.Join(cfg.Path, domain.CollectionKey+".json"), true
	case DriverSQLite:
		if cfg.Path == "" || cfg.Path == ":memory:" {
			return "", false
		}
		return cfg.Path, true
	default:
		return "", false
	}
}

func ensureParent(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}
