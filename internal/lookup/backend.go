package lookup

import "context"

// Backend is the capability interface over the upstream registry and
// sanctions services. The composition root selects Live or Fake once;
// agents and the verifier stay oblivious to which one they hold.
//
//go:generate mockgen -source=backend.go -destination=backend_mock_test.go -package=lookup
type Backend interface {
	// Search returns registry candidates for a firm name.
	Search(ctx context.Context, name string, filters SearchFilters, limit, offset int) ([]Candidate, error)
	// FirmDetails returns the full registry record for a firm reference.
	FirmDetails(ctx context.Context, id string) (*FirmRecord, error)
	// ScreenSanctions screens a firm name against sanctions lists.
	ScreenSanctions(ctx context.Context, name, country string) (*ScreenResult, error)
}
