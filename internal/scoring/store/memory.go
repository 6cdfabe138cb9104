package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	dErrors "trustlens/pkg/domain-errors"

	"trustlens/internal/scoring"
)

// MemoryStore is an in-process Store for tests and mock-mode deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	configs   map[string]*scoring.Config
	published []string
	snapshots map[string][]*scoring.Snapshot
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs:   make(map[string]*scoring.Config),
		snapshots: make(map[string][]*scoring.Snapshot),
	}
}

func (s *MemoryStore) PublishConfig(_ context.Context, cfg *scoring.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.configs[cfg.VersionKey]; exists {
		return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("scoring config version %s already published", cfg.VersionKey))
	}

	stored := *cfg
	stored.IsActive = false
	s.configs[cfg.VersionKey] = &stored
	s.published = append(s.published, cfg.VersionKey)
	return nil
}

func (s *MemoryStore) ConfigByVersion(_ context.Context, versionKey string) (*scoring.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[versionKey]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("scoring config version %s not found", versionKey))
	}
	out := *cfg
	return &out, nil
}

func (s *MemoryStore) ActiveConfig(_ context.Context) (*scoring.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cfg := range s.configs {
		if cfg.IsActive {
			out := *cfg
			return &out, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "no active scoring config")
}

func (s *MemoryStore) ListConfigs(_ context.Context) ([]*scoring.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*scoring.Config, 0, len(s.published))
	for _, key := range s.published {
		cfg := *s.configs[key]
		out = append(out, &cfg)
	}
	return out, nil
}

// Activate deactivates every version and activates the named one under a
// single lock hold, so readers never observe zero or two active versions.
func (s *MemoryStore) Activate(_ context.Context, versionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.configs[versionKey]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("scoring config version %s not found", versionKey))
	}
	for _, cfg := range s.configs {
		cfg.IsActive = false
	}
	target.IsActive = true
	return nil
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, snap *scoring.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *snap
	s.snapshots[snap.FirmID] = append(s.snapshots[snap.FirmID], &stored)
	return nil
}

func (s *MemoryStore) LatestSnapshot(_ context.Context, firmID string) (*scoring.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.snapshots[firmID]
	if len(snaps) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no snapshots for firm %s", firmID))
	}

	latest := snaps[0]
	for _, snap := range snaps[1:] {
		if snap.ComputedAt.After(latest.ComputedAt) {
			latest = snap
		}
	}
	out := *latest
	return &out, nil
}

func (s *MemoryStore) SnapshotsByFirm(_ context.Context, firmID string) ([]*scoring.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.snapshots[firmID]
	out := make([]*scoring.Snapshot, len(snaps))
	for i, snap := range snaps {
		cp := *snap
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComputedAt.After(out[j].ComputedAt) })
	return out, nil
}
