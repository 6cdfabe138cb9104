package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalConfig has one binned metric per pillar plus a jurisdiction metric
// in legal_compliance, with pass/fail bins so expected scores stay readable.
func minimalConfig() *Config {
	bins := map[string]Bin{}
	metrics := map[Pillar][]MetricSpec{}
	for _, p := range pillarOrder {
		name := string(p) + "_check"
		bins[name] = Bin{
			Edges:   []float64{0, 1},
			Labels:  []string{"fail", "pass"},
			Weights: []float64{0.0, 1.0},
		}
		metrics[p] = []MetricSpec{{Name: name, Kind: MetricBinned}}
	}
	metrics[PillarLegalCompliance] = append(metrics[PillarLegalCompliance],
		MetricSpec{Name: MetricJurisdictionName, Kind: MetricJurisdiction})

	return &Config{
		VersionKey: "test.1",
		PillarWeights: map[Pillar]float64{
			PillarTransparency:      0.2,
			PillarPayoutReliability: 0.2,
			PillarRiskModel:         0.2,
			PillarLegalCompliance:   0.2,
			PillarReputationSupport: 0.2,
		},
		PillarMetrics: metrics,
		JurisdictionMatrix: map[Tier]map[string]float64{
			TierLowRisk:  {"GB": 1.0},
			TierHighRisk: {"BZ": 0.4},
		},
		UnknownCoefficient: 0.1,
		Bins:               bins,
		NAValue:            0.5,
		PillarNAThreshold:  0.45,
		FirmNAThreshold:    0.40,
	}
}

func allPassMetrics() MetricSet {
	values := map[string]float64{}
	for _, p := range pillarOrder {
		values[string(p)+"_check"] = 1
	}
	return MetricSet{Values: values, Country: "GB"}
}

func TestComputeAllMetricsPresent(t *testing.T) {
	cfg := minimalConfig()
	require.NoError(t, cfg.Validate())

	snap := Compute(cfg, "firm-001", allPassMetrics())

	assert.Equal(t, "test.1", snap.VersionKey)
	assert.InDelta(t, 100.0, snap.Score, 1e-9)
	assert.Zero(t, snap.FirmNARate)
	assert.False(t, snap.ReviewFlag)
	require.Len(t, snap.PillarScores, 5)
	for _, ps := range snap.PillarScores {
		assert.InDelta(t, 1.0, ps.Score, 1e-9, ps.Pillar)
		assert.False(t, ps.ReviewFlag, ps.Pillar)
	}
}

func TestComputeNASubstitution(t *testing.T) {
	cfg := minimalConfig()
	m := allPassMetrics()
	delete(m.Values, string(PillarRiskModel)+"_check")

	snap := Compute(cfg, "firm-001", m)

	var riskModel PillarScore
	for _, ps := range snap.PillarScores {
		if ps.Pillar == PillarRiskModel {
			riskModel = ps
		}
	}
	assert.InDelta(t, 0.5, riskModel.Score, 1e-9)
	assert.InDelta(t, 1.0, riskModel.NARate, 1e-9)
	assert.True(t, riskModel.ReviewFlag)

	// 4 pillars at 1.0, one at 0.5, equal weights.
	assert.InDelta(t, 90.0, snap.Score, 1e-9)
	assert.InDelta(t, 0.2, snap.FirmNARate, 1e-9)
	assert.False(t, snap.ReviewFlag)
}

func TestComputeFirmReviewFlag(t *testing.T) {
	cfg := minimalConfig()
	m := MetricSet{Values: map[string]float64{}, Country: ""}

	snap := Compute(cfg, "firm-001", m)

	assert.InDelta(t, 1.0, snap.FirmNARate, 1e-9)
	assert.True(t, snap.ReviewFlag)
	assert.InDelta(t, 50.0, snap.Score, 1e-9)
}

func TestComputeJurisdictionMetric(t *testing.T) {
	cfg := minimalConfig()

	offshore := allPassMetrics()
	offshore.Country = "ZZ"
	snap := Compute(cfg, "firm-001", offshore)

	// legal_compliance averages its pass bin (1.0) with the unknown
	// jurisdiction coefficient (0.1).
	var legal PillarScore
	for _, ps := range snap.PillarScores {
		if ps.Pillar == PillarLegalCompliance {
			legal = ps
		}
	}
	assert.InDelta(t, 0.55, legal.Score, 1e-9)

	highRisk := allPassMetrics()
	highRisk.Country = "BZ"
	snap = Compute(cfg, "firm-001", highRisk)
	for _, ps := range snap.PillarScores {
		if ps.Pillar == PillarLegalCompliance {
			assert.InDelta(t, 0.7, ps.Score, 1e-9)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	m := MetricSet{
		Values: map[string]float64{
			MetricRegistryAuthorized:   1,
			MetricRegistryMatch:        0.92,
			MetricPayoutDelayDays:      12,
			MetricPayoutDisputes:       1,
			MetricSanctionsClear:       1,
			MetricAverageRating:        4.2,
			MetricReviewCount:          180,
			MetricOpenInvestigations:   0,
			MetricComplianceViolations: 0,
		},
		Country: "GB",
	}

	first := Compute(cfg, "firm-001", m)
	for range 10 {
		again := Compute(cfg, "firm-001", m)
		assert.Equal(t, first, again)
	}
}

type staticConfigs struct {
	cfg *Config
	err error
}

func (s *staticConfigs) ActiveConfig(context.Context) (*Config, error) { return s.cfg, s.err }

func TestEngineScorePinsVersionAndTimestamp(t *testing.T) {
	cfg := minimalConfig()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	engine, err := NewEngine(&staticConfigs{cfg: cfg}, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	snap, err := engine.Score(context.Background(), "firm-001", allPassMetrics())
	require.NoError(t, err)
	assert.Equal(t, "test.1", snap.VersionKey)
	assert.Equal(t, now, snap.ComputedAt)
	assert.NotEmpty(t, snap.ID)
}

func TestEngineScoreRefusesInvalidConfig(t *testing.T) {
	cfg := minimalConfig()
	cfg.PillarWeights[PillarTransparency] = 0.9

	engine, err := NewEngine(&staticConfigs{cfg: cfg})
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), "firm-001", allPassMetrics())
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestEngineScoreRequiresFirmID(t *testing.T) {
	engine, err := NewEngine(&staticConfigs{cfg: minimalConfig()})
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), "", allPassMetrics())
	require.Error(t, err)
}
