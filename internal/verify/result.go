// Package verify merges a registry-authority check and a sanctions screen
// into one combined risk decision. Both outcomes are always gathered before
// a decision is produced; sanctions screening is never short-circuited by
// registry results.
package verify

import (
	"time"

	"trustlens/internal/lookup"
)

// OverallStatus is the combined verification verdict.
type OverallStatus string

const (
	StatusClear          OverallStatus = "CLEAR"
	StatusSanctioned     OverallStatus = "SANCTIONED"
	StatusSuspended      OverallStatus = "SUSPENDED"
	StatusReviewRequired OverallStatus = "REVIEW_REQUIRED"
	StatusNotFound       OverallStatus = "NOT_FOUND"
)

// RiskScore buckets the combined risk.
type RiskScore string

const (
	RiskLow    RiskScore = "LOW"
	RiskMedium RiskScore = "MEDIUM"
	RiskHigh   RiskScore = "HIGH"
)

// RegistryOutcome is the registry half of a combined verification.
type RegistryOutcome struct {
	Status          lookup.RegistryStatus `json:"status"`
	Reference       string                `json:"reference,omitempty"`
	MatchedName     string                `json:"matched_name,omitempty"`
	MatchConfidence float64               `json:"match_confidence"`
	Failed          bool                  `json:"failed,omitempty"`
	FailureMessage  string                `json:"failure_message,omitempty"`
}

// SanctionsOutcome is the sanctions half of a combined verification.
type SanctionsOutcome struct {
	Status         lookup.SanctionsStatus `json:"status"`
	MatchCount     int                    `json:"match_count"`
	Failed         bool                   `json:"failed,omitempty"`
	FailureMessage string                 `json:"failure_message,omitempty"`
}

// Result is one combined verification decision.
type Result struct {
	FirmName    string           `json:"firm_name"`
	Overall     OverallStatus    `json:"overall_status"`
	Risk        RiskScore        `json:"risk_score"`
	Registry    RegistryOutcome  `json:"registry_outcome"`
	Sanctions   SanctionsOutcome `json:"sanctions_outcome"`
	RiskFactors []string         `json:"risk_factors"`
	Timestamp   time.Time        `json:"timestamp"`
}
