// Package kv holds the key-value backends the presentation store is built on.
//
// Error Contract:
// - Get returns ok=false, err=nil when the key is missing or expired
// - Any other failure is an infrastructure error, wrapped with context
// No backend retries; retry policy belongs to the caller.
package kv

import (
	"context"
	"time"
)

// Backend is a string key-value store with per-entry expiry. Put is
// last-writer-wins; no multi-key transaction is offered or assumed.
type Backend interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Expirer is implemented by backends without native expiry. The cleanup
// worker calls it to purge entries whose retention window has elapsed.
type Expirer interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
