package scoring

// Metric names shared between the default configuration and evidence
// extraction.
const (
	MetricRegistryAuthorized    = "registry_authorized"
	MetricRegistryMatch         = "registry_match_confidence"
	MetricPayoutDelayDays       = "payout_delay_days"
	MetricPayoutDisputes        = "payout_disputes"
	MetricOpenInvestigations    = "open_investigations"
	MetricSanctionsClear        = "sanctions_clear"
	MetricJurisdictionName      = "jurisdiction"
	MetricComplianceViolations  = "compliance_violations"
	MetricEnforcementActions    = "enforcement_actions"
	MetricAverageRating         = "average_rating"
	MetricReviewCount           = "review_count"
)

// DefaultConfig is the seed configuration shipped with the service. It is
// published inactive; operators activate it explicitly.
func DefaultConfig() *Config {
	return &Config{
		VersionKey:  "2026.1",
		Description: "baseline pillar weights and bin tables",
		PillarWeights: map[Pillar]float64{
			PillarTransparency:      0.15,
			PillarPayoutReliability: 0.30,
			PillarRiskModel:         0.15,
			PillarLegalCompliance:   0.25,
			PillarReputationSupport: 0.15,
		},
		PillarMetrics: map[Pillar][]MetricSpec{
			PillarTransparency: {
				{Name: MetricRegistryAuthorized, Kind: MetricBinned},
				{Name: MetricRegistryMatch, Kind: MetricBinned},
			},
			PillarPayoutReliability: {
				{Name: MetricPayoutDelayDays, Kind: MetricBinned},
				{Name: MetricPayoutDisputes, Kind: MetricBinned},
			},
			PillarRiskModel: {
				{Name: MetricOpenInvestigations, Kind: MetricBinned},
				{Name: MetricEnforcementActions, Kind: MetricBinned},
			},
			PillarLegalCompliance: {
				{Name: MetricJurisdictionName, Kind: MetricJurisdiction},
				{Name: MetricSanctionsClear, Kind: MetricBinned},
				{Name: MetricComplianceViolations, Kind: MetricBinned},
			},
			PillarReputationSupport: {
				{Name: MetricAverageRating, Kind: MetricBinned},
				{Name: MetricReviewCount, Kind: MetricBinned},
			},
		},
		JurisdictionMatrix: map[Tier]map[string]float64{
			TierLowRisk: {
				"GB": 1.0, "US": 1.0, "AU": 1.0, "DE": 1.0, "FR": 1.0,
				"NL": 1.0, "SE": 1.0, "CA": 1.0, "SG": 1.0,
			},
			TierMediumRisk: {
				"CY": 0.75, "MT": 0.75, "AE": 0.70, "CZ": 0.75, "PL": 0.75,
			},
			TierHighRisk: {
				"VU": 0.40, "MU": 0.40, "BZ": 0.35, "SC": 0.35,
			},
			TierVeryHighRisk: {
				"VG": 0.20, "MH": 0.20, "KM": 0.15,
			},
		},
		UnknownCoefficient: 0.10,
		Bins: map[string]Bin{
			MetricRegistryAuthorized: {
				Edges:   []float64{0, 1},
				Labels:  []string{"unauthorized", "authorized"},
				Weights: []float64{0.1, 1.0},
			},
			MetricRegistryMatch: {
				Edges:   []float64{0, 0.6, 0.8, 0.95},
				Labels:  []string{"none", "weak", "good", "exact"},
				Weights: []float64{0.1, 0.5, 0.8, 1.0},
			},
			MetricPayoutDelayDays: {
				Edges:   []float64{0, 7, 14, 30, 60},
				Labels:  []string{"immediate", "week", "fortnight", "month", "stalled"},
				Weights: []float64{1.0, 0.9, 0.7, 0.5, 0.3},
			},
			MetricPayoutDisputes: {
				Edges:   []float64{0, 1, 3, 10},
				Labels:  []string{"none", "isolated", "recurring", "systemic"},
				Weights: []float64{1.0, 0.7, 0.4, 0.1},
			},
			MetricOpenInvestigations: {
				Edges:   []float64{0, 1, 3},
				Labels:  []string{"none", "single", "multiple"},
				Weights: []float64{1.0, 0.5, 0.2},
			},
			MetricEnforcementActions: {
				Edges:   []float64{0, 1, 2},
				Labels:  []string{"none", "single", "repeated"},
				Weights: []float64{1.0, 0.4, 0.1},
			},
			MetricSanctionsClear: {
				Edges:   []float64{0, 1},
				Labels:  []string{"flagged", "clear"},
				Weights: []float64{0.0, 1.0},
			},
			MetricComplianceViolations: {
				Edges:   []float64{0, 1, 3, 5},
				Labels:  []string{"clean", "minor", "repeated", "serious"},
				Weights: []float64{1.0, 0.7, 0.4, 0.2},
			},
			MetricAverageRating: {
				Edges:   []float64{0, 2, 3, 4, 4.5},
				Labels:  []string{"terrible", "poor", "mixed", "good", "excellent"},
				Weights: []float64{0.1, 0.3, 0.5, 0.8, 1.0},
			},
			MetricReviewCount: {
				Edges:   []float64{0, 10, 50, 200},
				Labels:  []string{"none", "few", "some", "many"},
				Weights: []float64{0.3, 0.5, 0.8, 1.0},
			},
		},
		NAValue:           0.5,
		PillarNAThreshold: 0.45,
		FirmNAThreshold:   0.40,
	}
}
