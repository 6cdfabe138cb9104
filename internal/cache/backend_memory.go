package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryBackend is a mutex-guarded map with per-entry expiry. Used in tests
// and in deployments without a Redis URL configured.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		clock:   time.Now,
	}
}

// WithClock overrides the clock for expiry tests.
func (b *MemoryBackend) WithClock(clock func() time.Time) *MemoryBackend {
	b.clock = clock
	return b
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if entry.expired(b.clock()) {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = b.clock().Add(ttl)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

func (b *MemoryBackend) DeletePattern(_ context.Context, pattern string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()
	count := 0
	for key, entry := range b.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return count, err
		}
		if !matched {
			continue
		}
		live := !entry.expired(now)
		delete(b.entries, key)
		if live {
			count++
		}
	}
	return count, nil
}

func (b *MemoryBackend) Exists(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()
	return ok && !entry.expired(b.clock()), nil
}

func (b *MemoryBackend) TTL(_ context.Context, key string) (time.Duration, TTLState, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()

	if !ok || entry.expired(b.clock()) {
		return 0, TTLAbsent, nil
	}
	if entry.expiresAt.IsZero() {
		return 0, TTLNoExpiry, nil
	}
	return entry.expiresAt.Sub(b.clock()), TTLExpiring, nil
}
