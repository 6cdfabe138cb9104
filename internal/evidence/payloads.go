package evidence

import "time"

// RegistryCheck is the outcome of an authorization lookup against the
// national register.
type RegistryCheck struct {
	Status          string  `json:"status"` // AUTHORIZED, SUSPENDED, REVOKED, NOT_FOUND
	ReferenceNumber string  `json:"reference_number,omitempty"`
	MatchedName     string  `json:"matched_name,omitempty"`
	MatchConfidence float64 `json:"match_confidence"`
	Permissions     []string `json:"permissions,omitempty"`
}

func (RegistryCheck) Kind() Kind { return KindRegistryCheck }

// SanctionsMatch is one candidate hit on a sanctions list.
type SanctionsMatch struct {
	ListedName string  `json:"listed_name"`
	List       string  `json:"list"`
	Score      float64 `json:"score"`
}

// SanctionsScreen is the outcome of screening a firm against sanctions lists.
type SanctionsScreen struct {
	Status  string           `json:"status"` // CLEAR, SANCTIONED, POTENTIAL_MATCH, REVIEW_REQUIRED
	Matches []SanctionsMatch `json:"matches,omitempty"`
}

func (SanctionsScreen) Kind() Kind { return KindSanctionsScreen }

// Reputation aggregates public review signals for a firm.
type Reputation struct {
	Rating      float64 `json:"rating"` // 0-5
	ReviewCount int     `json:"review_count"`
	Sources     []string `json:"sources,omitempty"`
}

func (Reputation) Kind() Kind { return KindReputation }

// NewsItem is one classified regulatory news event.
type NewsItem struct {
	Headline    string    `json:"headline"`
	Category    string    `json:"category"` // enforcement, warning, routine
	Severity    string    `json:"severity"` // high, medium, low
	PublishedAt time.Time `json:"published_at"`
}

// RegulatoryNews carries classified regulatory press items about a firm.
type RegulatoryNews struct {
	Items []NewsItem `json:"items"`
}

func (RegulatoryNews) Kind() Kind { return KindRegulatoryNews }

// Submission is a community report about a firm, typically a payout dispute
// or a payout confirmation.
type Submission struct {
	Channel       string `json:"channel"` // web_form, email
	Category      string `json:"category"`
	Summary       string `json:"summary"`
	DelayDays     int    `json:"delay_days,omitempty"` // reported payout wait, payout categories only
	ReporterAgent string `json:"reporter_agent,omitempty"` // browser/OS summary, not raw UA
}

func (Submission) Kind() Kind { return KindSubmission }

// Investigation summarizes open and closed internal investigations.
type Investigation struct {
	OpenCases   int      `json:"open_cases"`
	ClosedCases int      `json:"closed_cases"`
	Findings    []string `json:"findings,omitempty"`
}

func (Investigation) Kind() Kind { return KindInvestigation }

// ComplianceReport summarizes a periodic compliance review.
type ComplianceReport struct {
	Period     string `json:"period"` // e.g. 2026-Q1
	Violations int    `json:"violations"`
	Notes      string `json:"notes,omitempty"`
}

func (ComplianceReport) Kind() Kind { return KindComplianceReport }
