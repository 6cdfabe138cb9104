package agents

import (
	"context"
	"time"

	"trustlens/internal/evidence"
	"trustlens/internal/firm"
)

// ReviewFetcher supplies aggregated public review signals for a firm.
type ReviewFetcher interface {
	Reviews(ctx context.Context, firmName string) (evidence.Reputation, error)
}

// ReputationAgent collects public review aggregates and emits reputation
// evidence. Confidence scales with review volume: thin samples say little.
type ReputationAgent struct {
	reviews ReviewFetcher
	source  evidence.Source
	clock   func() time.Time
}

func NewReputationAgent(reviews ReviewFetcher, source evidence.Source) *ReputationAgent {
	return &ReputationAgent{reviews: reviews, source: source, clock: time.Now}
}

func (a *ReputationAgent) Name() string { return AgentReputation }

func (a *ReputationAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	payload, err := a.reviews.Reviews(ctx, f.Name)
	if err != nil {
		return evidence.Evidence{}, err
	}
	return evidence.New(f.ID, payload, reviewConfidence(payload.ReviewCount), a.source, a.clock())
}

// reviewConfidence maps sample size onto confidence. Fewer than ten reviews
// is barely a signal; a few hundred is as good as this source gets.
func reviewConfidence(count int) float64 {
	switch {
	case count >= 200:
		return 0.9
	case count >= 50:
		return 0.75
	case count >= 10:
		return 0.5
	default:
		return 0.25
	}
}
