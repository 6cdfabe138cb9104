// Package store persists scoring configurations and scored snapshots.
package store

import (
	"context"

	"trustlens/internal/scoring"
)

// Store is the persistence surface for the scoring engine and the admin API.
// Configurations are immutable once published; exactly one version is active
// at a time and Activate swaps atomically.
type Store interface {
	PublishConfig(ctx context.Context, cfg *scoring.Config) error
	ConfigByVersion(ctx context.Context, versionKey string) (*scoring.Config, error)
	ActiveConfig(ctx context.Context) (*scoring.Config, error)
	ListConfigs(ctx context.Context) ([]*scoring.Config, error)
	Activate(ctx context.Context, versionKey string) error

	SaveSnapshot(ctx context.Context, snap *scoring.Snapshot) error
	LatestSnapshot(ctx context.Context, firmID string) (*scoring.Snapshot, error)
	SnapshotsByFirm(ctx context.Context, firmID string) ([]*scoring.Snapshot, error)
}
