// Package storage persists per-session client state in a flat key-value
// namespace and exposes the session operations built on top of it.
package storage

import (
	"context"
	"errors"
	"fmt"

	"jobflow/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is a flat string key-value store partitioned by namespace.
// Values are opaque JSON documents.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}

var ErrUnsupportedDriver = errors.New("unsupported storage driver")

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Open builds the store selected by cfg.Storage.Driver. db is only used by
// the database driver; the redis driver dials cfg.Redis.URL.
func Open(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Storage.Driver {
	case "database":
		if db == nil {
			return nil, errors.New("database storage requires a database connection")
		}
		logger.Info("Using database session storage")
		return NewGormStore(db), nil

	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis session storage",
			zap.String("prefix", cfg.Redis.KeyPrefix),
			zap.Duration("ttl", cfg.Redis.TTL),
		)
		return NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL), nil

	case "memory":
		logger.Info("Using in-memory session storage")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Storage.Driver)
	}
}
