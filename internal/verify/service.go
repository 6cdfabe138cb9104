package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"trustlens/internal/lookup"
	"trustlens/internal/verify/metrics"
)

const searchPageSize = 20

// Lookup is the slice of the lookup client the verifier needs.
type Lookup interface {
	Search(ctx context.Context, name string, filters lookup.SearchFilters, limit, offset int) ([]lookup.Candidate, error)
	FirmDetails(ctx context.Context, id string) (*lookup.FirmRecord, error)
	ScreenSanctions(ctx context.Context, name, country string) (*lookup.ScreenResult, error)
}

// Service runs combined verifications.
type Service struct {
	lookup  Lookup
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a verifier over the given lookup client.
func NewService(l Lookup, opts ...Option) (*Service, error) {
	if l == nil {
		return nil, fmt.Errorf("lookup client is required")
	}
	s := &Service{
		lookup: l,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request identifies the firm to verify.
type Request struct {
	FirmName string
	Country  string
}

// Verify gathers the registry and sanctions outcomes in parallel and applies
// the combined decision table. Lookup failures degrade to NOT_FOUND/CLEAR
// with zero confidence and a recorded risk factor; Verify itself only fails
// on an invalid request.
func (s *Service) Verify(ctx context.Context, req Request) (*Result, error) {
	if req.FirmName == "" {
		return nil, fmt.Errorf("firm name is required")
	}

	start := s.clock()
	reg, san := s.gatherOutcomes(ctx, req)
	result := Decide(req.FirmName, reg, san, s.clock())

	s.metrics.IncrementDecision(string(result.Overall), string(result.Risk))
	s.metrics.ObserveVerifyLatency(s.clock().Sub(start))
	s.logger.InfoContext(ctx, "combined verification complete",
		"firm_name", req.FirmName,
		"overall_status", result.Overall,
		"risk_score", result.Risk,
		"risk_factors", len(result.RiskFactors),
	)
	return result, nil
}

// gatherOutcomes fetches both halves concurrently. Each half absorbs its own
// lookup failure so the other always completes; the decision is made only
// once both are present.
func (s *Service) gatherOutcomes(ctx context.Context, req Request) (RegistryOutcome, SanctionsOutcome) {
	var (
		reg RegistryOutcome
		san SanctionsOutcome
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := s.clock()
		reg = s.CheckRegistry(gctx, req)
		s.metrics.ObserveOutcomeLatency("registry", s.clock().Sub(start))
		return nil
	})

	g.Go(func() error {
		start := s.clock()
		san = s.CheckSanctions(gctx, req)
		s.metrics.ObserveOutcomeLatency("sanctions", s.clock().Sub(start))
		return nil
	})

	// Goroutines never return errors; Wait is for completion only.
	_ = g.Wait()
	return reg, san
}

// CheckRegistry resolves the firm against the register: search, pick the
// most similar candidate, fetch its detail record. A best similarity below
// the match floor is NOT_FOUND no matter what the register returned.
func (s *Service) CheckRegistry(ctx context.Context, req Request) RegistryOutcome {
	candidates, err := s.lookup.Search(ctx, req.FirmName, lookup.SearchFilters{Country: req.Country}, searchPageSize, 0)
	if err != nil {
		if lookup.IsNotFound(err) {
			return RegistryOutcome{Status: lookup.RegistryNotFound}
		}
		s.logger.WarnContext(ctx, "registry search failed",
			"firm_name", req.FirmName,
			"error", err,
		)
		return RegistryOutcome{Status: lookup.RegistryNotFound, Failed: true, FailureMessage: err.Error()}
	}

	best, sim := BestMatch(req.FirmName, candidates)
	if sim < minMatchSimilarity {
		return RegistryOutcome{Status: lookup.RegistryNotFound}
	}

	rec, err := s.lookup.FirmDetails(ctx, best.ID)
	if err != nil {
		if lookup.IsNotFound(err) {
			return RegistryOutcome{Status: lookup.RegistryNotFound}
		}
		s.logger.WarnContext(ctx, "registry details lookup failed",
			"firm_name", req.FirmName,
			"reference", best.ID,
			"error", err,
		)
		return RegistryOutcome{Status: lookup.RegistryNotFound, Failed: true, FailureMessage: err.Error()}
	}

	return RegistryOutcome{
		Status:          rec.Status,
		Reference:       rec.ID,
		MatchedName:     rec.Name,
		MatchConfidence: sim,
	}
}

// CheckSanctions always runs, independent of the registry half.
func (s *Service) CheckSanctions(ctx context.Context, req Request) SanctionsOutcome {
	result, err := s.lookup.ScreenSanctions(ctx, req.FirmName, req.Country)
	if err != nil {
		s.logger.WarnContext(ctx, "sanctions screening failed",
			"firm_name", req.FirmName,
			"error", err,
		)
		return SanctionsOutcome{Status: lookup.SanctionsClear, Failed: true, FailureMessage: err.Error()}
	}
	return SanctionsOutcome{Status: result.Status, MatchCount: len(result.Hits)}
}
