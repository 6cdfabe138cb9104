//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustlens/pkg/testutil/containers"
)

func TestRedisBackendIntegration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	backend := NewRedisBackend(rc.Client)
	store := New("lookup", backend)

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		type record struct {
			Name  string   `json:"name"`
			Tags  []string `json:"tags"`
			Score float64  `json:"score"`
		}
		in := record{Name: "Apex Funding Ltd", Tags: []string{"gb", "authorized"}, Score: 0.93}
		require.True(t, store.Set(ctx, "firm:1", in, time.Minute))

		var out record
		require.True(t, store.Get(ctx, "firm:1", &out))
		assert.Equal(t, in, out)
	})

	t.Run("expiry", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		require.True(t, store.Set(ctx, "short", "v", 100*time.Millisecond))
		time.Sleep(200 * time.Millisecond)

		var out string
		assert.False(t, store.Get(ctx, "short", &out))
	})

	t.Run("delete pattern", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		require.True(t, store.Set(ctx, "search:apex:1", "a", time.Minute))
		require.True(t, store.Set(ctx, "search:apex:2", "b", time.Minute))
		require.True(t, store.Set(ctx, "details:apex", "c", time.Minute))

		assert.Equal(t, 2, store.DeletePattern(ctx, "search:apex:*"))
		assert.True(t, store.Exists(ctx, "details:apex"))
	})

	t.Run("ttl states", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		require.True(t, store.Set(ctx, "timed", "v", time.Hour))

		remaining, state := store.TTL(ctx, "timed")
		assert.Equal(t, TTLExpiring, state)
		assert.Greater(t, remaining, 59*time.Minute)

		_, state = store.TTL(ctx, "missing")
		assert.Equal(t, TTLAbsent, state)
	})

	t.Run("stats reflect hits and misses", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		fresh := New("stats", backend)
		require.True(t, fresh.Set(ctx, "k", "v", time.Minute))

		var out string
		require.True(t, fresh.Get(ctx, "k", &out))
		require.False(t, fresh.Get(ctx, "absent", &out))

		stats := fresh.Stats()
		assert.Equal(t, uint64(1), stats.Hits)
		assert.Equal(t, uint64(1), stats.Misses)
	})
}
