package main

import (
	"context"
	"log/slog"

	"trustlens/internal/firm"
	"trustlens/internal/lookup"
	"trustlens/internal/scoring"
	"trustlens/internal/scoring/store"
)

// seedFirms returns the development firm set served when no Postgres DSN is
// configured.
func seedFirms() *firm.MemoryStore {
	return firm.NewMemoryStore(
		firm.Firm{ID: "firm-001", Name: "Apex Funding Ltd", Country: "GB", Website: "https://apexfunding.example"},
		firm.Firm{ID: "firm-002", Name: "Borealis Trading GmbH", Country: "DE", Website: "https://borealis.example"},
		firm.Firm{ID: "firm-003", Name: "Cinder Capital LLC", Country: "VG"},
	)
}

// seedFake populates the fake lookup backend with records matching the
// development firms.
func seedFake(fake *lookup.FakeBackend) {
	fake.SeedFirm(lookup.FirmRecord{
		ID:          "FRN100001",
		Name:        "Apex Funding Ltd",
		Status:      lookup.RegistryAuthorized,
		Country:     "GB",
		Permissions: []string{"dealing in investments", "client money"},
	})
	fake.SeedFirm(lookup.FirmRecord{
		ID:      "FRN100002",
		Name:    "Borealis Trading GmbH",
		Status:  lookup.RegistrySuspended,
		Country: "DE",
	})
	fake.SeedScreen("Cinder Capital LLC", lookup.ScreenResult{
		Status: lookup.SanctionsReviewRequired,
		Hits:   []lookup.SanctionsHit{{ListedName: "Cinder Capital", List: "OFAC", Score: 0.84}},
	})
}

// seedScoring publishes and activates the default configuration so the
// in-memory deployment can score immediately.
func seedScoring(ctx context.Context, memStore *store.MemoryStore, log *slog.Logger) {
	cfg := scoring.DefaultConfig()
	if err := memStore.PublishConfig(ctx, cfg); err != nil {
		log.Error("seed scoring config failed", "error", err)
		return
	}
	if err := memStore.Activate(ctx, cfg.VersionKey); err != nil {
		log.Error("activate scoring config failed", "error", err)
	}
}
