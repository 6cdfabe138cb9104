//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustlens/internal/scoring"
	dErrors "trustlens/pkg/domain-errors"
	"trustlens/pkg/testutil/containers"
)

func TestPostgresStoreIntegration(t *testing.T) {
	pc := containers.NewPostgresContainer(t, "../../../migrations")
	ctx := context.Background()

	store, err := NewPostgresStore(pc.Pool)
	require.NoError(t, err)

	publish := func(key string) {
		cfg := scoring.DefaultConfig()
		cfg.VersionKey = key
		require.NoError(t, store.PublishConfig(ctx, cfg))
	}

	t.Run("publish and fetch by version", func(t *testing.T) {
		publish("2026.1")

		got, err := store.ConfigByVersion(ctx, "2026.1")
		require.NoError(t, err)
		assert.Equal(t, "2026.1", got.VersionKey)
		assert.False(t, got.IsActive)
		assert.InDelta(t, 0.30, got.PillarWeights[scoring.PillarPayoutReliability], 1e-9)
	})

	t.Run("duplicate version conflicts", func(t *testing.T) {
		err := store.PublishConfig(ctx, scoring.DefaultConfig())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
	})

	t.Run("invalid config rejected before insert", func(t *testing.T) {
		cfg := scoring.DefaultConfig()
		cfg.VersionKey = "2026.bad"
		cfg.PillarWeights[scoring.PillarTransparency] = 0.9

		err := store.PublishConfig(ctx, cfg)
		require.Error(t, err)
		assert.True(t, scoring.IsConfigError(err))
	})

	t.Run("activation swaps the single active version", func(t *testing.T) {
		publish("2026.2")

		_, err := store.ActiveConfig(ctx)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))

		require.NoError(t, store.Activate(ctx, "2026.1"))
		require.NoError(t, store.Activate(ctx, "2026.2"))

		active, err := store.ActiveConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2026.2", active.VersionKey)

		configs, err := store.ListConfigs(ctx)
		require.NoError(t, err)
		activeCount := 0
		for _, cfg := range configs {
			if cfg.IsActive {
				activeCount++
			}
		}
		assert.Equal(t, 1, activeCount)
	})

	t.Run("activate unknown version", func(t *testing.T) {
		err := store.Activate(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("snapshot history", func(t *testing.T) {
		_, err := pc.Pool.Exec(ctx, `INSERT INTO firms (firm_id, display_name) VALUES ('firm-001', 'Apex Funding Ltd')`)
		require.NoError(t, err)

		base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		for i, score := range []float64{61.5, 72.0, 68.25} {
			snap := &scoring.Snapshot{
				ID:         "snap-" + string(rune('a'+i)),
				FirmID:     "firm-001",
				VersionKey: "2026.1",
				Score:      score,
				PillarScores: []scoring.PillarScore{
					{Pillar: scoring.PillarTransparency, Score: score / 100},
				},
				ComputedAt: base.Add(time.Duration(i) * time.Hour),
			}
			require.NoError(t, store.SaveSnapshot(ctx, snap))
		}

		latest, err := store.LatestSnapshot(ctx, "firm-001")
		require.NoError(t, err)
		assert.InDelta(t, 68.25, latest.Score, 1e-9)
		require.Len(t, latest.PillarScores, 1)
		assert.Equal(t, scoring.PillarTransparency, latest.PillarScores[0].Pillar)

		history, err := store.SnapshotsByFirm(ctx, "firm-001")
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.True(t, history[0].ComputedAt.After(history[1].ComputedAt))
	})

	t.Run("latest snapshot unknown firm", func(t *testing.T) {
		_, err := store.LatestSnapshot(ctx, "ghost")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}
