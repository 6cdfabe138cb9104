// Package scoring converts firm evidence metrics into pillar scores and an
// overall 0-100 trust score under a versioned configuration. Scoring is
// rule-based and deterministic: the same metrics and the same configuration
// version always produce the same result.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Pillar is one of the five top-level scoring categories.
type Pillar string

const (
	PillarTransparency      Pillar = "transparency"
	PillarPayoutReliability Pillar = "payout_reliability"
	PillarRiskModel         Pillar = "risk_model"
	PillarLegalCompliance   Pillar = "legal_compliance"
	PillarReputationSupport Pillar = "reputation_support"
)

// pillarOrder fixes the iteration order everywhere a result is assembled.
var pillarOrder = []Pillar{
	PillarTransparency,
	PillarPayoutReliability,
	PillarRiskModel,
	PillarLegalCompliance,
	PillarReputationSupport,
}

// Tier is one of the four jurisdiction risk buckets.
type Tier string

const (
	TierLowRisk      Tier = "LOW_RISK"
	TierMediumRisk   Tier = "MEDIUM_RISK"
	TierHighRisk     Tier = "HIGH_RISK"
	TierVeryHighRisk Tier = "VERY_HIGH_RISK"
)

var tierOrder = []Tier{TierLowRisk, TierMediumRisk, TierHighRisk, TierVeryHighRisk}

// MetricKind distinguishes how a metric's raw value turns into a sub-score.
type MetricKind string

const (
	// MetricBinned maps a numeric raw value through the metric's bin table.
	MetricBinned MetricKind = "binned"
	// MetricJurisdiction maps the firm's country code through the
	// jurisdiction matrix.
	MetricJurisdiction MetricKind = "jurisdiction"
)

// MetricSpec names one metric inside a pillar and how it is scored.
type MetricSpec struct {
	Name string     `json:"name"`
	Kind MetricKind `json:"kind"`
}

// Bin maps a numeric raw value onto a sub-score. Edges are ascending; the
// sub-score for a value is the weight of the greatest edge not exceeding it.
// Values below every edge take the first weight, values above every edge the
// last.
type Bin struct {
	Edges   []float64 `json:"edges"`
	Labels  []string  `json:"labels"`
	Weights []float64 `json:"weights"`
}

const weightTolerance = 1e-9

// Config is one published scoring configuration version. Configs are
// immutable once published; exactly one version is active at a time.
type Config struct {
	VersionKey  string `json:"version_key"`
	Description string `json:"description,omitempty"`

	PillarWeights map[Pillar]float64      `json:"pillar_weights"`
	PillarMetrics map[Pillar][]MetricSpec `json:"pillar_metrics"`

	JurisdictionMatrix map[Tier]map[string]float64 `json:"jurisdiction_matrix"`
	UnknownCoefficient float64                     `json:"unknown_coefficient"`

	Bins map[string]Bin `json:"bins"`

	NAValue           float64 `json:"na_value"`
	PillarNAThreshold float64 `json:"pillar_na_threshold"`
	FirmNAThreshold   float64 `json:"firm_na_threshold"`

	IsActive bool `json:"is_active"`
}

// ConfigError marks a configuration that must not be scored with. It is
// fatal: callers refuse to score until the configuration is corrected.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "scoring config: " + e.msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is a fatal configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Validate rejects a config that cannot produce well-defined scores. It runs
// at load and publish time so scoring itself never has to re-check.
func (c *Config) Validate() error {
	if c.VersionKey == "" {
		return configErrorf("version key is required")
	}

	var sum float64
	for _, p := range pillarOrder {
		w, ok := c.PillarWeights[p]
		if !ok {
			return configErrorf("version %s: missing weight for pillar %s", c.VersionKey, p)
		}
		if w < 0 || w > 1 {
			return configErrorf("version %s: pillar %s weight %v out of [0,1]", c.VersionKey, p, w)
		}
		sum += w
	}
	if len(c.PillarWeights) != len(pillarOrder) {
		return configErrorf("version %s: unexpected pillar in weights", c.VersionKey)
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return configErrorf("version %s: pillar weights sum to %v, want 1.0", c.VersionKey, sum)
	}

	for _, p := range pillarOrder {
		specs := c.PillarMetrics[p]
		if len(specs) == 0 {
			return configErrorf("version %s: pillar %s has no metrics", c.VersionKey, p)
		}
		for _, spec := range specs {
			switch spec.Kind {
			case MetricBinned:
				bin, ok := c.Bins[spec.Name]
				if !ok {
					return configErrorf("version %s: metric %s has no bin table", c.VersionKey, spec.Name)
				}
				if err := bin.validate(spec.Name); err != nil {
					return err
				}
			case MetricJurisdiction:
				// Matrix-driven, no per-metric table.
			default:
				return configErrorf("version %s: metric %s has unknown kind %q", c.VersionKey, spec.Name, spec.Kind)
			}
		}
	}

	for _, tier := range tierOrder {
		for country, coeff := range c.JurisdictionMatrix[tier] {
			if coeff < 0 || coeff > 1 {
				return configErrorf("version %s: tier %s country %s coefficient %v out of [0,1]", c.VersionKey, tier, country, coeff)
			}
		}
	}
	if c.UnknownCoefficient < 0 || c.UnknownCoefficient > 1 {
		return configErrorf("version %s: unknown-jurisdiction coefficient %v out of [0,1]", c.VersionKey, c.UnknownCoefficient)
	}

	if c.NAValue < 0 || c.NAValue > 1 {
		return configErrorf("version %s: na value %v out of [0,1]", c.VersionKey, c.NAValue)
	}
	if c.PillarNAThreshold < 0 || c.PillarNAThreshold > 1 || c.FirmNAThreshold < 0 || c.FirmNAThreshold > 1 {
		return configErrorf("version %s: na thresholds out of [0,1]", c.VersionKey)
	}
	return nil
}

func (b Bin) validate(metric string) error {
	if len(b.Edges) == 0 {
		return configErrorf("metric %s: bin has no edges", metric)
	}
	if len(b.Weights) != len(b.Edges) || len(b.Labels) != len(b.Edges) {
		return configErrorf("metric %s: edges, labels and weights must align", metric)
	}
	if !sort.Float64sAreSorted(b.Edges) {
		return configErrorf("metric %s: bin edges must be ascending", metric)
	}
	for _, w := range b.Weights {
		if w < 0 || w > 1 {
			return configErrorf("metric %s: bin weight %v out of [0,1]", metric, w)
		}
	}
	return nil
}

// subScore resolves a raw value to the weight of the greatest edge not
// exceeding it.
func (b Bin) subScore(value float64) float64 {
	idx := 0
	for i, edge := range b.Edges {
		if value >= edge {
			idx = i
		}
	}
	return b.Weights[idx]
}

// jurisdictionCoefficient resolves a country code across the four tiers,
// falling back to the unknown/offshore coefficient.
func (c *Config) jurisdictionCoefficient(country string) float64 {
	code := strings.ToUpper(strings.TrimSpace(country))
	for _, tier := range tierOrder {
		if coeff, ok := c.JurisdictionMatrix[tier][code]; ok {
			return coeff
		}
	}
	return c.UnknownCoefficient
}
