package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trustlens/internal/cache"
	"trustlens/internal/ratelimit"
)

// Cache TTLs. Search results churn as firms register and rename; detail
// records are stable enough to hold for a day.
const (
	searchTTL  = time.Hour
	detailsTTL = 24 * time.Hour
)

// Client is the cache-first, rate-limited entry point for all external
// lookups. A cache hit skips the rate limiter entirely; a miss acquires a
// permit, calls the backend, populates the cache, and returns.
type Client struct {
	backend Backend
	cache   *cache.Cache
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient assembles the lookup client. All three collaborators are
// required; the cache may sit on a memory backend when Redis is absent.
func NewClient(backend Backend, store *cache.Cache, limiter *ratelimit.Limiter, opts ...Option) (*Client, error) {
	if backend == nil {
		return nil, fmt.Errorf("lookup backend is required")
	}
	if store == nil {
		return nil, fmt.Errorf("lookup cache is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("lookup rate limiter is required")
	}

	c := &Client{
		backend: backend,
		cache:   store,
		limiter: limiter,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func searchKey(name string, filters SearchFilters, limit, offset int) string {
	return fmt.Sprintf("search:%s:%s:%s:%d:%d",
		NormalizeName(name), filters.Country, filters.Status, limit, offset)
}

// Search returns registry candidates for a firm name, cached for one hour
// under the normalized name.
func (c *Client) Search(ctx context.Context, name string, filters SearchFilters, limit, offset int) ([]Candidate, error) {
	key := searchKey(name, filters, limit, offset)

	var cached []Candidate
	if c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &Error{Op: "search", Kind: FailureExhausted, Err: err}
	}

	candidates, err := c.backend.Search(ctx, name, filters, limit, offset)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, key, candidates, searchTTL)
	return candidates, nil
}

// FirmDetails returns the registry record for a firm reference, cached for
// 24 hours under the reference.
func (c *Client) FirmDetails(ctx context.Context, id string) (*FirmRecord, error) {
	key := "details:" + id

	var cached FirmRecord
	if c.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &Error{Op: "details", Kind: FailureExhausted, Err: err}
	}

	rec, err := c.backend.FirmDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, key, rec, detailsTTL)
	return rec, nil
}

// ScreenSanctions screens a firm name against sanctions lists. Screening
// results are deliberately uncached: a hit must be visible on the next check.
func (c *Client) ScreenSanctions(ctx context.Context, name, country string) (*ScreenResult, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &Error{Op: "sanctions", Kind: FailureExhausted, Err: err}
	}
	return c.backend.ScreenSanctions(ctx, name, country)
}

// InvalidateFirm drops cached entries for one firm reference, used when an
// upstream sync reports the record changed.
func (c *Client) InvalidateFirm(ctx context.Context, id string) {
	c.cache.Delete(ctx, "details:"+id)
}

// CacheStats exposes cache effectiveness counters for operational endpoints.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}
