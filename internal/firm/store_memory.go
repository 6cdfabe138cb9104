package firm

import (
	"context"
	"sync"

	"trustlens/pkg/sentinel"
)

// MemoryStore is a read-only snapshot of firms, used in tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	firms map[string]Firm
}

// NewMemoryStore creates a store seeded with the given firms.
func NewMemoryStore(firms ...Firm) *MemoryStore {
	s := &MemoryStore{firms: make(map[string]Firm, len(firms))}
	for _, f := range firms {
		s.firms[f.ID] = f
	}
	return s
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Firm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.firms[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Firm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Firm, 0, len(s.firms))
	for _, f := range s.firms {
		out = append(out, f)
	}
	return out, nil
}
