// Package pipeline wires the evidence-to-score flow: resolve the firm, fan
// out the agents, log the evidence, extract metrics, score, persist the
// snapshot, and notify downstream consumers.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trustlens/internal/agents"
	"trustlens/internal/evidence"
	"trustlens/internal/firm"
	"trustlens/internal/lookup"
	"trustlens/internal/notify"
	"trustlens/internal/scoring"
	"trustlens/internal/scoring/store"
	"trustlens/internal/verify"
	"trustlens/pkg/audit"
	dErrors "trustlens/pkg/domain-errors"
)

// Service orchestrates firm verification and scoring runs.
type Service struct {
	firms     firm.Store
	registry  *agents.Registry
	log       evidence.Store
	engine    *scoring.Engine
	snapshots store.Store
	auditor   *audit.Publisher
	notifier  notify.Publisher
	logger    *slog.Logger
	clock     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithAudit(pub *audit.Publisher) Option {
	return func(s *Service) { s.auditor = pub }
}

func WithNotifier(pub notify.Publisher) Option {
	return func(s *Service) { s.notifier = pub }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates the pipeline over its collaborators.
func NewService(
	firms firm.Store,
	registry *agents.Registry,
	log evidence.Store,
	engine *scoring.Engine,
	snapshots store.Store,
	opts ...Option,
) (*Service, error) {
	if firms == nil || registry == nil || log == nil || engine == nil || snapshots == nil {
		return nil, fmt.Errorf("all pipeline collaborators are required")
	}
	s := &Service{
		firms:     firms,
		registry:  registry,
		log:       log,
		engine:    engine,
		snapshots: snapshots,
		notifier:  notify.NoopPublisher{},
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// VerifyFirm runs every registered agent against the firm and appends the
// collected evidence to the log. The returned bundle has one slot per agent.
func (s *Service) VerifyFirm(ctx context.Context, firmID string) (agents.FirmResult, error) {
	f, err := s.firms.FindByID(ctx, firmID)
	if err != nil {
		return agents.FirmResult{}, dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("firm %s", firmID))
	}

	result := agents.FirmResult{Firm: *f, Outcomes: s.registry.VerifyFirm(ctx, *f)}
	s.appendEvidence(ctx, result)

	s.emit(ctx, audit.Event{
		Action: string(audit.EventVerificationCompleted),
		FirmID: f.ID,
		Reason: fmt.Sprintf("%d agents", len(result.Outcomes)),
	})
	if decision := s.combinedDecision(result); decision != nil {
		s.notifier.VerificationCompleted(ctx, f.ID, decision)
	}
	return result, nil
}

// combinedDecision rebuilds the registry and sanctions halves from the agent
// outcomes and runs them through the combined decision table. Nil when
// neither half was collected, so deployments without those agents publish
// nothing.
func (s *Service) combinedDecision(result agents.FirmResult) *verify.Result {
	regOut, hasReg := result.Outcomes[agents.AgentRegistryCheck]
	sanOut, hasSan := result.Outcomes[agents.AgentSanctionsScreen]
	if !hasReg && !hasSan {
		return nil
	}

	var reg verify.RegistryOutcome
	switch {
	case regOut.Failed:
		reg = verify.RegistryOutcome{
			Status:         lookup.RegistryNotFound,
			Failed:         true,
			FailureMessage: regOut.FailureMessage,
		}
	case regOut.Evidence != nil:
		if p, ok := regOut.Evidence.Payload.(evidence.RegistryCheck); ok {
			reg = verify.RegistryOutcome{
				Status:          lookup.RegistryStatus(p.Status),
				Reference:       p.ReferenceNumber,
				MatchedName:     p.MatchedName,
				MatchConfidence: p.MatchConfidence,
			}
		}
	}

	var san verify.SanctionsOutcome
	switch {
	case sanOut.Failed:
		san = verify.SanctionsOutcome{
			Status:         lookup.SanctionsClear,
			Failed:         true,
			FailureMessage: sanOut.FailureMessage,
		}
	case sanOut.Evidence != nil:
		if p, ok := sanOut.Evidence.Payload.(evidence.SanctionsScreen); ok {
			san = verify.SanctionsOutcome{
				Status:     lookup.SanctionsStatus(p.Status),
				MatchCount: len(p.Matches),
			}
		}
	}

	return verify.Decide(result.Firm.Name, reg, san, s.clock())
}

// ScoreFirm verifies the firm and scores the resulting evidence bundle under
// the active configuration, persisting the snapshot.
func (s *Service) ScoreFirm(ctx context.Context, firmID string) (*scoring.Snapshot, error) {
	result, err := s.VerifyFirm(ctx, firmID)
	if err != nil {
		return nil, err
	}

	snap, err := s.engine.Score(ctx, firmID, scoring.ExtractMetrics(result))
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	s.emit(ctx, audit.Event{
		Action:   string(audit.EventSnapshotSaved),
		FirmID:   firmID,
		Decision: snap.VersionKey,
	})
	s.notifier.ScoreComputed(ctx, snap)
	return snap, nil
}

// LatestScore returns the firm's most recent snapshot.
func (s *Service) LatestScore(ctx context.Context, firmID string) (*scoring.Snapshot, error) {
	return s.snapshots.LatestSnapshot(ctx, firmID)
}

// ScoreHistory returns every snapshot for the firm, newest first.
func (s *Service) ScoreHistory(ctx context.Context, firmID string) ([]*scoring.Snapshot, error) {
	return s.snapshots.SnapshotsByFirm(ctx, firmID)
}

// appendEvidence logs each successful agent outcome. Log failures are
// reported but never fail the verification that produced the evidence.
func (s *Service) appendEvidence(ctx context.Context, result agents.FirmResult) {
	for name, outcome := range result.Outcomes {
		if outcome.Failed || outcome.Evidence == nil {
			continue
		}
		if err := s.log.Append(ctx, *outcome.Evidence); err != nil {
			s.logger.ErrorContext(ctx, "evidence append failed",
				"firm_id", result.Firm.ID,
				"agent", name,
				"error", err,
			)
			continue
		}
		if isSanctionsHit(outcome.Evidence) {
			s.emit(ctx, audit.Event{
				Action: string(audit.EventSanctionsHit),
				FirmID: result.Firm.ID,
				Reason: name,
			})
		}
	}
}

func isSanctionsHit(ev *evidence.Evidence) bool {
	payload, ok := ev.Payload.(evidence.SanctionsScreen)
	return ok && payload.Status != "CLEAR"
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, event)
}
