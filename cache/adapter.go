// Package cache abstracts the two cache backends behind one interface.
package cache

import (
	"context"
	"time"

	"github.com/kuraoka/signalquest/cache/local"
	cacheredis "github.com/kuraoka/signalquest/cache/redis"
)

// Cache covers the two shapes of cached state the server keeps: session
// tokens as plain KV entries and the experience leaderboard as a sorted
// set keyed by player name.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
}

// Config selects and configures the backend.
type Config struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

// New picks Redis when an address is configured, otherwise the
// in-process LocalCache.
func New(cfg Config) (Cache, error) {
	if cfg.RedisAddr == "" {
		return local.NewCache(local.Config{GCInterval: cfg.LocalGCInterval})
	}
	return cacheredis.NewCache(cacheredis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
