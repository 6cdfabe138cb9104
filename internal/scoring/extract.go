package scoring

import (
	"trustlens/internal/agents"
	"trustlens/internal/evidence"
	"trustlens/internal/lookup"
)

// ExtractMetrics flattens a firm's evidence bundle into the raw metric set
// the engine scores. Failed agent slots contribute nothing, so their metrics
// score as NA rather than as zeros.
func ExtractMetrics(result agents.FirmResult) MetricSet {
	m := MetricSet{
		Values:  make(map[string]float64),
		Country: result.Firm.Country,
	}

	for _, outcome := range result.Outcomes {
		if outcome.Failed || outcome.Evidence == nil {
			continue
		}
		apply(m.Values, outcome.Evidence.Payload)
	}
	return m
}

func apply(values map[string]float64, payload evidence.Payload) {
	switch p := payload.(type) {
	case evidence.RegistryCheck:
		values[MetricRegistryAuthorized] = boolMetric(p.Status == string(lookup.RegistryAuthorized))
		values[MetricRegistryMatch] = p.MatchConfidence
	case evidence.SanctionsScreen:
		values[MetricSanctionsClear] = boolMetric(p.Status == string(lookup.SanctionsClear))
	case evidence.Reputation:
		values[MetricAverageRating] = p.Rating
		values[MetricReviewCount] = float64(p.ReviewCount)
	case evidence.RegulatoryNews:
		var enforcement int
		for _, item := range p.Items {
			if item.Category == "enforcement" {
				enforcement++
			}
		}
		values[MetricEnforcementActions] = float64(enforcement)
	case evidence.Submission:
		switch p.Category {
		case "payout_dispute":
			values[MetricPayoutDisputes] = 1
			values[MetricPayoutDelayDays] = float64(p.DelayDays)
		case "payout_confirmed":
			values[MetricPayoutDisputes] = 0
			values[MetricPayoutDelayDays] = float64(p.DelayDays)
		}
	case evidence.Investigation:
		values[MetricOpenInvestigations] = float64(p.OpenCases)
	case evidence.ComplianceReport:
		values[MetricComplianceViolations] = float64(p.Violations)
	}
}

func boolMetric(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
