package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"verifier/internal/sentinel"
	"verifier/pkg/platform/circuit"
)

// Guarded wraps a Backend with a circuit breaker. Calls always reach the
// backend: serving stale presentation state is never an acceptable fallback.
// The breaker only decides what readiness reports, so an instance with a
// failing backend is taken out of rotation until calls succeed again.
type Guarded struct {
	backend Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuarded wraps backend with breaker.
func NewGuarded(backend Backend, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{backend: backend, breaker: breaker, logger: logger}
}

func (g *Guarded) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	err := g.backend.Put(ctx, key, value, ttl)
	g.record(ctx, err)
	return err
}

func (g *Guarded) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := g.backend.Get(ctx, key)
	g.record(ctx, err)
	return value, ok, err
}

// DeleteExpired forwards to the wrapped backend when it has no native expiry.
func (g *Guarded) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	expirer, ok := g.backend.(Expirer)
	if !ok {
		return 0, nil
	}
	n, err := expirer.DeleteExpired(ctx, now)
	g.record(ctx, err)
	return n, err
}

// Check reports an open circuit as sentinel.ErrUnavailable.
func (g *Guarded) Check(context.Context) error {
	if g.breaker.IsOpen() {
		return fmt.Errorf("%s circuit open: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}
	return nil
}

// record ignores cancellations: a caller giving up says nothing about the backend.
func (g *Guarded) record(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	change := g.breaker.Record(err == nil)
	switch {
	case change.Opened:
		g.logger.ErrorContext(ctx, "circuit breaker opened",
			"circuit", g.breaker.Name(),
			"error", err,
		)
	case change.Closed:
		g.logger.InfoContext(ctx, "circuit breaker closed",
			"circuit", g.breaker.Name(),
		)
	}
}
