package lookup

import (
	"context"
	"strings"
	"sync"
)

// FakeBackend serves deterministic registry and sanctions data from memory.
// Selected at composition time for local runs and tests; callers cannot tell
// it apart from the live backend.
type FakeBackend struct {
	mu      sync.RWMutex
	records map[string]FirmRecord   // by reference
	screens map[string]ScreenResult // by normalized name
}

// NewFakeBackend creates an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		records: make(map[string]FirmRecord),
		screens: make(map[string]ScreenResult),
	}
}

// SeedFirm registers a firm record served by Search and FirmDetails.
func (b *FakeBackend) SeedFirm(rec FirmRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[rec.ID] = rec
}

// SeedScreen registers a sanctions screening result for a firm name.
func (b *FakeBackend) SeedScreen(name string, result ScreenResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screens[NormalizeName(name)] = result
}

func (b *FakeBackend) Search(_ context.Context, name string, filters SearchFilters, limit, offset int) ([]Candidate, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	needle := NormalizeName(name)
	var out []Candidate
	for _, rec := range b.records {
		if needle != "" && !strings.Contains(NormalizeName(rec.Name), needle) {
			continue
		}
		if filters.Country != "" && !strings.EqualFold(filters.Country, rec.Country) {
			continue
		}
		out = append(out, Candidate{ID: rec.ID, Name: rec.Name, Status: rec.Status})
	}

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (b *FakeBackend) FirmDetails(_ context.Context, id string) (*FirmRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.records[id]
	if !ok {
		return nil, &Error{Op: "details", Kind: FailureNotFound}
	}
	return &rec, nil
}

func (b *FakeBackend) ScreenSanctions(_ context.Context, name, _ string) (*ScreenResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if result, ok := b.screens[NormalizeName(name)]; ok {
		return &result, nil
	}
	return &ScreenResult{Status: SanctionsClear}, nil
}
