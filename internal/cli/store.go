package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/nodenav/pkg/cache"
	"github.com/matzehuels/nodenav/pkg/state"
)

// openStore connects the configured snapshot store backend. Network
// backends (redis, mongo) are retried with backoff before giving up, since
// a dev-environment store is often still starting when the CLI runs.
func (c *CLI) openStore(ctx context.Context) (state.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case "", "file":
		dir, err := c.Config.snapshotDir()
		if err != nil {
			return nil, fmt.Errorf("resolve snapshot dir: %w", err)
		}
		return state.NewFileStore(dir)

	case "memory":
		return state.NewMemoryStore(), nil

	case "redis":
		var s state.Store
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			s, err = state.NewRedisStore(ctx, state.RedisConfig{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				TTL:      time.Duration(cfg.Redis.TTL),
			})
			return cache.Retryable(err)
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return s, nil

	case "mongo":
		var s state.Store
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			s, err = state.NewMongoStore(ctx, state.MongoConfig{
				URI:        cfg.Mongo.URI,
				Database:   cfg.Mongo.Database,
				Collection: cfg.Mongo.Collection,
			})
			return cache.Retryable(err)
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo %s: %w", cfg.Mongo.URI, err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q (memory, file, redis, mongo)", cfg.Backend)
	}
}
