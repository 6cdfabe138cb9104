// Package cache provides a TTL key-value layer used to avoid repeated
// external lookups. The cache is a performance optimization, never a
// correctness dependency: every backend failure degrades to a miss or a
// no-op and is recorded in metrics instead of being surfaced to callers.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustlens_cache_hits_total",
		Help: "Total cache hits by cache name",
	}, []string{"cache"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustlens_cache_misses_total",
		Help: "Total cache misses by cache name",
	}, []string{"cache"})
	cacheSets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustlens_cache_sets_total",
		Help: "Total cache writes by cache name",
	}, []string{"cache"})
	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustlens_cache_errors_total",
		Help: "Total cache backend errors by cache name",
	}, []string{"cache"})
)

// TTLState classifies the expiry state of a key.
type TTLState int

const (
	TTLAbsent TTLState = iota
	TTLNoExpiry
	TTLExpiring
)

// Backend is the raw byte-oriented store underneath a Cache. Implementations
// must be safe for concurrent use; callers need no extra locking.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, TTLState, error)
}

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Hits   uint64
	Misses uint64
	Sets   uint64
	Errors uint64
}

// HitRate returns the hit percentage over all accesses, 0 with no accesses.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache namespaces keys, serializes values as JSON, and absorbs backend
// failures. One Cache per logical key namespace; Clear flushes only that
// namespace.
type Cache struct {
	name    string
	backend Backend
	logger  *slog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
	sets   atomic.Uint64
	errors atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a Cache over the given backend. name doubles as the logical
// key namespace and the metrics label.
func New(name string, backend Backend, opts ...Option) *Cache {
	c := &Cache{
		name:    name,
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(k string) string {
	return c.name + ":" + k
}

// Get reads key into dest (a JSON-unmarshalable pointer). Returns false on
// miss, expired entry, malformed payload, or backend failure.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, found, err := c.backend.Get(ctx, c.key(key))
	if err != nil {
		c.recordError(ctx, "get", key, err)
		c.misses.Add(1)
		cacheMisses.WithLabelValues(c.name).Inc()
		return false
	}
	if !found {
		c.misses.Add(1)
		cacheMisses.WithLabelValues(c.name).Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.recordError(ctx, "decode", key, err)
		c.misses.Add(1)
		cacheMisses.WithLabelValues(c.name).Inc()
		return false
	}
	c.hits.Add(1)
	cacheHits.WithLabelValues(c.name).Inc()
	return true
}

// Set stores value under key for ttl. A zero ttl means no expiry.
// Returns false if the write was dropped due to a backend failure.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		c.recordError(ctx, "encode", key, err)
		return false
	}
	if err := c.backend.Set(ctx, c.key(key), raw, ttl); err != nil {
		c.recordError(ctx, "set", key, err)
		return false
	}
	c.sets.Add(1)
	cacheSets.WithLabelValues(c.name).Inc()
	return true
}

// Delete removes key. Returns false on backend failure.
func (c *Cache) Delete(ctx context.Context, key string) bool {
	if err := c.backend.Delete(ctx, c.key(key)); err != nil {
		c.recordError(ctx, "delete", key, err)
		return false
	}
	return true
}

// DeletePattern removes all keys in this namespace matching the glob pattern
// and returns how many were removed.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) int {
	n, err := c.backend.DeletePattern(ctx, c.key(pattern))
	if err != nil {
		c.recordError(ctx, "delete_pattern", pattern, err)
		return 0
	}
	return n
}

// Exists reports whether key is present. Backend failures read as absent.
func (c *Cache) Exists(ctx context.Context, key string) bool {
	ok, err := c.backend.Exists(ctx, c.key(key))
	if err != nil {
		c.recordError(ctx, "exists", key, err)
		return false
	}
	return ok
}

// TTL returns the remaining lifetime of key and its expiry state.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, TTLState) {
	d, state, err := c.backend.TTL(ctx, c.key(key))
	if err != nil {
		c.recordError(ctx, "ttl", key, err)
		return 0, TTLAbsent
	}
	return d, state
}

// Clear flushes every key in this cache's namespace and returns the count.
// Keys belonging to other namespaces on a shared backend are untouched.
func (c *Cache) Clear(ctx context.Context) int {
	return c.DeletePattern(ctx, "*")
}

// Stats returns a snapshot of this cache's effectiveness counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
		Errors: c.errors.Load(),
	}
}

func (c *Cache) recordError(ctx context.Context, op, key string, err error) {
	c.errors.Add(1)
	cacheErrors.WithLabelValues(c.name).Inc()
	c.logger.WarnContext(ctx, "cache backend error, degrading",
		"cache", c.name,
		"op", op,
		"key", key,
		"error", err,
	)
}
