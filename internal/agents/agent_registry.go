package agents

import (
	"context"
	"time"

	"trustlens/internal/evidence"
	"trustlens/internal/firm"
	"trustlens/internal/verify"
)

// Agent names key the verification result map.
const (
	AgentRegistryCheck    = "registry_check"
	AgentSanctionsScreen  = "sanctions_screen"
	AgentReputation       = "reputation"
	AgentRegulatoryNews   = "regulatory_news"
	AgentSubmissions      = "submissions"
	AgentInvestigation    = "investigation"
	AgentComplianceReport = "compliance_report"
)

// RegistryCheckAgent verifies a firm's authorization status against the
// national register and emits registry_check evidence.
type RegistryCheckAgent struct {
	verifier *verify.Service
	source   evidence.Source
	clock    func() time.Time
}

// NewRegistryCheckAgent creates the agent. source records whether the
// verifier runs against the live registry or a fake backend.
func NewRegistryCheckAgent(verifier *verify.Service, source evidence.Source) *RegistryCheckAgent {
	return &RegistryCheckAgent{verifier: verifier, source: source, clock: time.Now}
}

func (a *RegistryCheckAgent) Name() string { return AgentRegistryCheck }

func (a *RegistryCheckAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	outcome := a.verifier.CheckRegistry(ctx, verify.Request{FirmName: f.Name, Country: f.Country})

	payload := evidence.RegistryCheck{
		Status:          string(outcome.Status),
		ReferenceNumber: outcome.Reference,
		MatchedName:     outcome.MatchedName,
		MatchConfidence: outcome.MatchConfidence,
	}
	return evidence.New(f.ID, payload, outcome.MatchConfidence, a.source, a.clock())
}

// SanctionsScreenAgent screens a firm against sanctions lists and emits
// sanctions_screen evidence. Screening confidence is fixed high: list
// matching is exact-name based upstream.
type SanctionsScreenAgent struct {
	verifier *verify.Service
	source   evidence.Source
	clock    func() time.Time
}

func NewSanctionsScreenAgent(verifier *verify.Service, source evidence.Source) *SanctionsScreenAgent {
	return &SanctionsScreenAgent{verifier: verifier, source: source, clock: time.Now}
}

func (a *SanctionsScreenAgent) Name() string { return AgentSanctionsScreen }

func (a *SanctionsScreenAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	outcome := a.verifier.CheckSanctions(ctx, verify.Request{FirmName: f.Name, Country: f.Country})

	confidence := 0.9
	if outcome.Failed {
		confidence = 0
	}
	payload := evidence.SanctionsScreen{Status: string(outcome.Status)}
	return evidence.New(f.ID, payload, confidence, a.source, a.clock())
}
