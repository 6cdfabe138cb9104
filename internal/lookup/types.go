// Package lookup provides the cached, rate-limited client for the external
// registry and sanctions screening services. All upstream access goes through
// this package; callers never see raw upstream payloads or transport errors.
package lookup

import "strings"

// RegistryStatus is the normalized authorization status of a firm on the
// national register.
type RegistryStatus string

const (
	RegistryAuthorized RegistryStatus = "AUTHORIZED"
	RegistrySuspended  RegistryStatus = "SUSPENDED"
	RegistryRevoked    RegistryStatus = "REVOKED"
	RegistryNotFound   RegistryStatus = "NOT_FOUND"
)

// SanctionsStatus is the normalized outcome of a sanctions screen.
type SanctionsStatus string

const (
	SanctionsClear          SanctionsStatus = "CLEAR"
	SanctionsSanctioned     SanctionsStatus = "SANCTIONED"
	SanctionsPotentialMatch SanctionsStatus = "POTENTIAL_MATCH"
	SanctionsReviewRequired SanctionsStatus = "REVIEW_REQUIRED"
)

// Candidate is one search result from the registry.
type Candidate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status RegistryStatus `json:"status"`
}

// FirmRecord is the normalized registry detail record.
type FirmRecord struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      RegistryStatus `json:"status"`
	Country     string         `json:"country"`
	Permissions []string       `json:"permissions,omitempty"`
}

// SearchFilters narrows a registry search.
type SearchFilters struct {
	Country string `json:"country,omitempty"`
	Status  string `json:"status,omitempty"`
}

// SanctionsHit is one candidate match on a sanctions list.
type SanctionsHit struct {
	ListedName string  `json:"listed_name"`
	List       string  `json:"list"`
	Score      float64 `json:"score"`
}

// ScreenResult is the normalized sanctions screening outcome.
type ScreenResult struct {
	Status SanctionsStatus `json:"status"`
	Hits   []SanctionsHit  `json:"hits,omitempty"`
}

// NormalizeName lower-cases a firm name and strips non-alphanumerics,
// producing the canonical cache key for name-based searches.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
