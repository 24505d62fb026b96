package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredEntryStore exposes cleanup for entries whose retention window elapsed.
type ExpiredEntryStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Metrics receives the number of entries reclaimed per run.
type Metrics interface {
	AddExpiredEntriesDeleted(n int)
}

// CleanupService periodically reclaims expired presentation entries from
// backends that lack native expiry.
type CleanupService struct {
	store    ExpiredEntryStore
	interval time.Duration
	logger   *slog.Logger
	metrics  Metrics
	now      func() time.Time
}

// CleanupOption configures CleanupService.
type CleanupOption func(*CleanupService)

// WithCleanupInterval overrides the cleanup interval when greater than zero.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithCleanupLogger overrides the logger used for cleanup errors.
func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCleanupMetrics records reclaimed entries.
func WithCleanupMetrics(m Metrics) CleanupOption {
	return func(s *CleanupService) {
		s.metrics = m
	}
}

// WithCleanupClock overrides the clock used as the expiry cut-off.
func WithCleanupClock(now func() time.Time) CleanupOption {
	return func(s *CleanupService) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a CleanupService for store with options applied.
func New(store ExpiredEntryStore, opts ...CleanupOption) (*CleanupService, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	svc := &CleanupService{
		store:    store,
		interval: 5 * time.Minute,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "presentation cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce deletes every entry that expired as of now and returns the count.
func (s *CleanupService) RunOnce(ctx context.Context) (int, error) {
	deleted, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired entries: %w", err)
	}
	if s.metrics != nil && deleted > 0 {
		s.metrics.AddExpiredEntriesDeleted(deleted)
	}
	if deleted > 0 {
		s.logger.DebugContext(ctx, "expired presentation entries deleted", "count", deleted)
	}
	return deleted, nil
}
