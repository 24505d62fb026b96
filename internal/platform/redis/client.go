// Package redis connects the go-redis client used by the redis presentation
// backend and exports its pool statistics.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"verifier/internal/platform/config"
)

const defaultPingTimeout = 5 * time.Second

type poolMetrics struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	timeouts   prometheus.Counter
	staleConns prometheus.Counter
	totalConns prometheus.Gauge
	idleConns  prometheus.Gauge
}

func newPoolMetrics(reg prometheus.Registerer) *poolMetrics {
	factory := promauto.With(reg)
	return &poolMetrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "verifier_redis_pool_hits_total",
			Help: "Number of times a connection was found in the pool",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "verifier_redis_pool_misses_total",
			Help: "Number of times a connection was not found in the pool",
		}),
		timeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "verifier_redis_pool_timeouts_total",
			Help: "Number of times a connection was not obtained due to timeout",
		}),
		staleConns: factory.NewCounter(prometheus.CounterOpts{
			Name: "verifier_redis_pool_stale_conns_total",
			Help: "Number of stale connections removed from the pool",
		}),
		totalConns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verifier_redis_pool_total_conns",
			Help: "Number of total connections in the pool",
		}),
		idleConns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verifier_redis_pool_idle_conns",
			Help: "Number of idle connections in the pool",
		}),
	}
}

// Client wraps the go-redis client backing the redis presentation store.
type Client struct {
	*redis.Client
	metrics   *poolMetrics
	lastStats redis.PoolStats
}

// Option configures a Client.
type Option func(*Client)

// WithRegisterer registers pool metrics with reg instead of the default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = newPoolMetrics(reg)
	}
}

// New connects to cfg.URL and pings it. The URL is required.
func New(cfg config.RedisConfig, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("REDIS_URL is required for the redis backend")
	}

	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		redisOpts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		redisOpts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		redisOpts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		redisOpts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		redisOpts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	pingTimeout := cfg.DialTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	c := &Client{Client: client}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newPoolMetrics(prometheus.DefaultRegisterer)
	}
	return c, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RunPoolStats records pool statistics every interval until ctx is done.
func (c *Client) RunPoolStats(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.RecordPoolStats()
		}
	}
}

// RecordPoolStats sets the connection gauges and adds the counter deltas
// since the previous call. Not safe for concurrent use.
func (c *Client) RecordPoolStats() {
	stats := *c.PoolStats()

	c.metrics.totalConns.Set(float64(stats.TotalConns))
	c.metrics.idleConns.Set(float64(stats.IdleConns))

	addDelta(c.metrics.hits, stats.Hits, c.lastStats.Hits)
	addDelta(c.metrics.misses, stats.Misses, c.lastStats.Misses)
	addDelta(c.metrics.timeouts, stats.Timeouts, c.lastStats.Timeouts)
	addDelta(c.metrics.staleConns, stats.StaleConns, c.lastStats.StaleConns)

	c.lastStats = stats
}

// addDelta ignores a shrinking source, which only happens if the pool was replaced.
func addDelta(counter prometheus.Counter, current, last uint32) {
	if current > last {
		counter.Add(float64(current - last))
	}
}
