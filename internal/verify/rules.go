package verify

import (
	"fmt"
	"time"

	"trustlens/internal/lookup"
)

// Candidates below this similarity are treated as no match at all.
const minMatchSimilarity = 0.6

// Registry matches below this confidence raise the risk score even when the
// firm is authorized.
const lowConfidenceThreshold = 0.7

// Decide applies the combined decision table to a gathered registry and
// sanctions outcome pair. Pure domain logic, no I/O, no side effects.
func Decide(firmName string, reg RegistryOutcome, san SanctionsOutcome, at time.Time) *Result {
	return &Result{
		FirmName:    firmName,
		Overall:     overallStatus(reg, san),
		Risk:        riskScore(reg, san),
		Registry:    reg,
		Sanctions:   san,
		RiskFactors: riskFactors(reg, san),
		Timestamp:   at,
	}
}

// overallStatus evaluates the priority table; first match wins. REVOKED has
// no row: a revoked firm is CLEAR overall and surfaces only as a risk factor.
func overallStatus(reg RegistryOutcome, san SanctionsOutcome) OverallStatus {
	switch {
	case san.Status == lookup.SanctionsSanctioned:
		return StatusSanctioned
	case reg.Status == lookup.RegistrySuspended:
		return StatusSuspended
	case san.Status == lookup.SanctionsReviewRequired:
		return StatusReviewRequired
	case reg.Status == lookup.RegistryNotFound:
		return StatusNotFound
	default:
		return StatusClear
	}
}

// riskScore walks the ladder from highest applicable rung down.
func riskScore(reg RegistryOutcome, san SanctionsOutcome) RiskScore {
	switch {
	case san.Status == lookup.SanctionsSanctioned:
		return RiskHigh
	case reg.Status == lookup.RegistrySuspended, san.Status == lookup.SanctionsReviewRequired:
		return RiskHigh
	case san.Status == lookup.SanctionsPotentialMatch, reg.MatchConfidence < lowConfidenceThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// riskFactors builds the ordered human-readable reasons: registry-derived
// factors first, then sanctions-derived, from the same conditions the
// decision table uses.
func riskFactors(reg RegistryOutcome, san SanctionsOutcome) []string {
	factors := []string{}

	switch reg.Status {
	case lookup.RegistrySuspended:
		factors = append(factors, "registry authorization suspended")
	case lookup.RegistryRevoked:
		factors = append(factors, "registry authorization revoked")
	case lookup.RegistryNotFound:
		factors = append(factors, "firm not found on register")
	}
	if reg.Failed {
		factors = append(factors, fmt.Sprintf("registry lookup failed: %s", reg.FailureMessage))
	} else if reg.Status != lookup.RegistryNotFound && reg.MatchConfidence < lowConfidenceThreshold {
		factors = append(factors, fmt.Sprintf("low registry match confidence (%.2f)", reg.MatchConfidence))
	}

	switch san.Status {
	case lookup.SanctionsSanctioned:
		factors = append(factors, fmt.Sprintf("%d sanctions match(es)", san.MatchCount))
	case lookup.SanctionsReviewRequired:
		factors = append(factors, "sanctions screening requires manual review")
	case lookup.SanctionsPotentialMatch:
		factors = append(factors, "potential sanctions match")
	}
	if san.Failed {
		factors = append(factors, fmt.Sprintf("sanctions screening failed: %s", san.FailureMessage))
	}

	return factors
}
