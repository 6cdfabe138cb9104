// Package ratelimit provides a blocking token-bucket gate that protects a
// downstream service from overload. Requests are delayed until a permit is
// free, never dropped.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	permitsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustlens_ratelimit_permits_granted_total",
		Help: "Total permits granted by limiter name",
	}, []string{"limiter"})
	permitWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trustlens_ratelimit_permit_wait_seconds",
		Help:    "Time callers spent waiting for a permit",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"limiter"})
)

// Limiter is a token bucket shared by all concurrent callers hitting one
// protected service. Token state is a single mutable counter guarded by a
// mutex so concurrent acquisition can never over-admit. One instance per
// protected service per process, injected from the composition root.
type Limiter struct {
	name     string
	capacity float64
	rate     float64 // tokens per second

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time

	clock func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// PerMinute creates a Limiter admitting n permits per minute with a burst
// capacity of n.
func PerMinute(name string, n int) (*Limiter, error) {
	if n <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %d", n)
	}
	l := &Limiter{
		name:     name,
		capacity: float64(n),
		rate:     float64(n) / 60.0,
		tokens:   float64(n),
		clock:    time.Now,
		sleep:    sleepContext,
	}
	l.lastRefill = l.clock()
	return l, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// refill credits tokens accrued since the last refill. Caller holds l.mu.
func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastRefill = now
}

// TryAcquire takes a permit if one is immediately available.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(l.clock())
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	permitsGranted.WithLabelValues(l.name).Inc()
	return true
}

// Acquire blocks until a permit is available or ctx is done. The wait is the
// exact time until the next token accrues; callers are serviced as tokens
// refill rather than being rejected.
func (l *Limiter) Acquire(ctx context.Context) error {
	start := l.clock()
	for {
		l.mu.Lock()
		now := l.clock()
		l.refill(now)
		if l.tokens >= 1 {
			l.tokens--
			l.mu.Unlock()
			permitsGranted.WithLabelValues(l.name).Inc()
			permitWaitSeconds.WithLabelValues(l.name).Observe(l.clock().Sub(start).Seconds())
			return nil
		}
		deficit := 1 - l.tokens
		wait := time.Duration(deficit / l.rate * float64(time.Second))
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Available reports the current number of whole permits, for introspection.
func (l *Limiter) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill(l.clock())
	return int(l.tokens)
}
