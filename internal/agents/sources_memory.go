package agents

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trustlens/internal/evidence"
	"trustlens/pkg/sentinel"
)

// MemoryReviews is an in-process ReviewFetcher keyed by firm name.
type MemoryReviews struct {
	mu      sync.RWMutex
	reviews map[string]evidence.Reputation
}

func NewMemoryReviews() *MemoryReviews {
	return &MemoryReviews{reviews: make(map[string]evidence.Reputation)}
}

func (m *MemoryReviews) Seed(firmName string, rep evidence.Reputation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[firmName] = rep
}

func (m *MemoryReviews) Reviews(_ context.Context, firmName string) (evidence.Reputation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rep, ok := m.reviews[firmName]
	if !ok {
		return evidence.Reputation{}, fmt.Errorf("reviews for %q: %w", firmName, sentinel.ErrNotFound)
	}
	return rep, nil
}

// MemoryNewsFeed is an in-process NewsFeed keyed by firm name. Unknown firms
// get an empty feed, matching how press coverage behaves.
type MemoryNewsFeed struct {
	mu        sync.RWMutex
	headlines map[string][]Headline
}

func NewMemoryNewsFeed() *MemoryNewsFeed {
	return &MemoryNewsFeed{headlines: make(map[string][]Headline)}
}

func (m *MemoryNewsFeed) Seed(firmName string, items ...Headline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headlines[firmName] = append(m.headlines[firmName], items...)
}

func (m *MemoryNewsFeed) Headlines(_ context.Context, firmName string) ([]Headline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.headlines[firmName]
	out := make([]Headline, len(items))
	copy(out, items)
	return out, nil
}

// MemorySubmissions is an in-process SubmissionStore.
type MemorySubmissions struct {
	mu   sync.RWMutex
	subs map[string][]UserSubmission
}

func NewMemorySubmissions() *MemorySubmissions {
	return &MemorySubmissions{subs: make(map[string][]UserSubmission)}
}

func (m *MemorySubmissions) Add(sub UserSubmission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.FirmID] = append(m.subs[sub.FirmID], sub)
}

func (m *MemorySubmissions) ByFirm(_ context.Context, firmID string) ([]UserSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subs := m.subs[firmID]
	out := make([]UserSubmission, len(subs))
	copy(out, subs)
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// MemoryCases is an in-process CaseStore keyed by firm ID.
type MemoryCases struct {
	mu    sync.RWMutex
	cases map[string]evidence.Investigation
}

func NewMemoryCases() *MemoryCases {
	return &MemoryCases{cases: make(map[string]evidence.Investigation)}
}

func (m *MemoryCases) Seed(firmID string, inv evidence.Investigation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases[firmID] = inv
}

func (m *MemoryCases) CasesByFirm(_ context.Context, firmID string) (evidence.Investigation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.cases[firmID]
	if !ok {
		return evidence.Investigation{}, nil
	}
	return inv, nil
}

// MemoryReports is an in-process ReportSource keyed by firm ID.
type MemoryReports struct {
	mu      sync.RWMutex
	reports map[string]evidence.ComplianceReport
}

func NewMemoryReports() *MemoryReports {
	return &MemoryReports{reports: make(map[string]evidence.ComplianceReport)}
}

func (m *MemoryReports) Seed(firmID string, rep evidence.ComplianceReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[firmID] = rep
}

func (m *MemoryReports) LatestReport(_ context.Context, firmID string) (evidence.ComplianceReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rep, ok := m.reports[firmID]
	if !ok {
		return evidence.ComplianceReport{}, fmt.Errorf("compliance report for firm %s: %w", firmID, sentinel.ErrNotFound)
	}
	return rep, nil
}
