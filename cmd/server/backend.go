package main

import (
	"context"
	"fmt"
	"log/slog"

	"verifier/internal/platform/config"
	"verifier/internal/platform/database"
	"verifier/internal/platform/health"
	"verifier/internal/platform/redis"
	"verifier/internal/presentation/store/kv"
)

// backend is the selected kv backend plus the resources it owns.
type backend struct {
	kv.Backend
	checks  map[string]health.CheckFunc
	redis   *redis.Client
	closers []func() error
}

func (b *backend) Close() error {
	var firstErr error
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openBackend connects the backend named by cfg.Store.Backend.
func openBackend(ctx context.Context, cfg config.Server, log *slog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory presentation store; state is lost on restart and not shared between instances")
		return &backend{Backend: kv.NewMemory(), checks: map[string]health.CheckFunc{}}, nil

	case config.BackendRedis:
		client, err := redis.New(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &backend{
			Backend: kv.NewRedis(client.Client),
			checks:  map[string]health.CheckFunc{"redis": client.Health},
			redis:   client,
			closers: []func() error{client.Close},
		}, nil

	case config.BackendPostgres:
		pool, err := database.New(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &backend{
			Backend: kv.NewPostgres(pool.DB()),
			checks:  map[string]health.CheckFunc{"postgres": pool.Health},
			closers: []func() error{pool.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.Store.Backend)
	}
}
