package evidence

import (
	"context"
	"sort"
	"sync"

	dErrors "trustlens/pkg/domain-errors"
)

// Store is the append-only evidence log. Evidence is never updated or
// deleted; re-submitting identical content is a no-op keyed by content hash.
type Store interface {
	Append(ctx context.Context, ev Evidence) error
	ByFirm(ctx context.Context, firmID string) ([]Evidence, error)
	ByFirmAndKind(ctx context.Context, firmID string, kind Kind) ([]Evidence, error)
}

// MemoryStore is an in-process Store for tests and mock-mode deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	byHash map[string]struct{}
	byFirm map[string][]Evidence
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byHash: make(map[string]struct{}),
		byFirm: make(map[string][]Evidence),
	}
}

func (s *MemoryStore) Append(_ context.Context, ev Evidence) error {
	if ev.FirmID == "" || ev.ContentHash == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "evidence firm id and content hash are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.byHash[ev.ContentHash]; seen {
		return nil
	}
	s.byHash[ev.ContentHash] = struct{}{}
	s.byFirm[ev.FirmID] = append(s.byFirm[ev.FirmID], ev)
	return nil
}

func (s *MemoryStore) ByFirm(_ context.Context, firmID string) ([]Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.byFirm[firmID]
	out := make([]Evidence, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].CollectedAt.Before(out[j].CollectedAt) })
	return out, nil
}

func (s *MemoryStore) ByFirmAndKind(ctx context.Context, firmID string, kind Kind) ([]Evidence, error) {
	all, err := s.ByFirm(ctx, firmID)
	if err != nil {
		return nil, err
	}
	out := make([]Evidence, 0, len(all))
	for _, ev := range all {
		if ev.Kind() == kind {
			out = append(out, ev)
		}
	}
	return out, nil
}
