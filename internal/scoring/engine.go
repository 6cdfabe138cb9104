package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoresComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustlens_scores_computed_total",
		Help: "Scoring runs completed, by configuration version.",
	}, []string{"version"})

	scoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trustlens_overall_score",
		Help:    "Distribution of overall scores.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	reviewFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trustlens_score_review_flags_total",
		Help: "Scoring runs that raised the firm-level review flag.",
	})
)

// MetricSet carries the raw inputs for one scoring run. A metric missing
// from Values is treated as NA. Country feeds jurisdiction-typed metrics;
// empty means the jurisdiction is unknown to us entirely, which is also NA.
type MetricSet struct {
	Values  map[string]float64
	Country string
}

// PillarScore is one pillar's result within a scoring run.
type PillarScore struct {
	Pillar     Pillar  `json:"pillar"`
	Score      float64 `json:"score"`
	NARate     float64 `json:"na_rate"`
	ReviewFlag bool    `json:"review_flag"`
}

// Snapshot is one complete scoring run for a firm, pinned to the
// configuration version that produced it.
type Snapshot struct {
	ID           string        `json:"id"`
	FirmID       string        `json:"firm_id"`
	VersionKey   string        `json:"version_key"`
	Score        float64       `json:"score_0_100"`
	PillarScores []PillarScore `json:"pillar_scores"`
	FirmNARate   float64       `json:"firm_na_rate"`
	ReviewFlag   bool          `json:"review_flag"`
	ComputedAt   time.Time     `json:"computed_at"`
}

// ConfigSource supplies the active configuration for a scoring run.
type ConfigSource interface {
	ActiveConfig(ctx context.Context) (*Config, error)
}

// Engine scores firms under whatever configuration is active.
type Engine struct {
	configs ConfigSource
	logger  *slog.Logger
	clock   func() time.Time
	newID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// NewEngine creates a scoring engine over the given configuration source.
func NewEngine(configs ConfigSource, opts ...Option) (*Engine, error) {
	if configs == nil {
		return nil, fmt.Errorf("config source is required")
	}
	e := &Engine{
		configs: configs,
		logger:  slog.Default(),
		clock:   time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Score computes a snapshot for the firm under the active configuration.
// A missing or invalid active configuration is fatal and nothing is scored.
func (e *Engine) Score(ctx context.Context, firmID string, metrics MetricSet) (*Snapshot, error) {
	if firmID == "" {
		return nil, fmt.Errorf("firm id is required")
	}

	cfg, err := e.configs.ActiveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	snapshot := Compute(cfg, firmID, metrics)
	snapshot.ID = e.newID()
	snapshot.ComputedAt = e.clock()

	scoresComputed.WithLabelValues(cfg.VersionKey).Inc()
	scoreDistribution.Observe(snapshot.Score)
	if snapshot.ReviewFlag {
		reviewFlagged.Inc()
	}
	e.logger.InfoContext(ctx, "firm scored",
		"firm_id", firmID,
		"version", cfg.VersionKey,
		"score", snapshot.Score,
		"firm_na_rate", snapshot.FirmNARate,
		"review_flag", snapshot.ReviewFlag,
	)
	return snapshot, nil
}

// Compute applies a validated configuration to a metric set. It is pure:
// neither wall-clock time nor call order influences the result, so rescoring
// historical evidence under a pinned version reproduces the stored snapshot.
func Compute(cfg *Config, firmID string, metrics MetricSet) *Snapshot {
	pillars := make([]PillarScore, 0, len(pillarOrder))
	var naRateSum float64

	for _, pillar := range pillarOrder {
		ps := scorePillar(cfg, pillar, metrics)
		naRateSum += ps.NARate
		pillars = append(pillars, ps)
	}

	var overall float64
	for _, ps := range pillars {
		overall += cfg.PillarWeights[ps.Pillar] * ps.Score
	}

	firmNARate := naRateSum / float64(len(pillars))
	return &Snapshot{
		FirmID:       firmID,
		VersionKey:   cfg.VersionKey,
		Score:        100 * overall,
		PillarScores: pillars,
		FirmNARate:   firmNARate,
		ReviewFlag:   firmNARate > cfg.FirmNAThreshold,
	}
}

// scorePillar averages the pillar's metric sub-scores. NA substitutions stay
// in the denominator at the configured neutral value.
func scorePillar(cfg *Config, pillar Pillar, metrics MetricSet) PillarScore {
	specs := cfg.PillarMetrics[pillar]

	var sum float64
	naCount := 0
	for _, spec := range specs {
		sub, ok := subScore(cfg, spec, metrics)
		if !ok {
			sub = cfg.NAValue
			naCount++
		}
		sum += sub
	}

	naRate := float64(naCount) / float64(len(specs))
	return PillarScore{
		Pillar:     pillar,
		Score:      sum / float64(len(specs)),
		NARate:     naRate,
		ReviewFlag: naRate > cfg.PillarNAThreshold,
	}
}

func subScore(cfg *Config, spec MetricSpec, metrics MetricSet) (float64, bool) {
	switch spec.Kind {
	case MetricJurisdiction:
		if metrics.Country == "" {
			return 0, false
		}
		return cfg.jurisdictionCoefficient(metrics.Country), true
	default:
		value, ok := metrics.Values[spec.Name]
		if !ok {
			return 0, false
		}
		return cfg.Bins[spec.Name].subScore(value), true
	}
}
