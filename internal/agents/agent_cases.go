package agents

import (
	"context"
	"time"

	"trustlens/internal/evidence"
	"trustlens/internal/firm"
)

// CaseStore supplies internal investigation counts and findings for a firm.
type CaseStore interface {
	CasesByFirm(ctx context.Context, firmID string) (evidence.Investigation, error)
}

// InvestigationAgent surfaces internal investigation history as
// investigation evidence.
type InvestigationAgent struct {
	cases  CaseStore
	source evidence.Source
	clock  func() time.Time
}

func NewInvestigationAgent(cases CaseStore, source evidence.Source) *InvestigationAgent {
	return &InvestigationAgent{cases: cases, source: source, clock: time.Now}
}

func (a *InvestigationAgent) Name() string { return AgentInvestigation }

func (a *InvestigationAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	payload, err := a.cases.CasesByFirm(ctx, f.ID)
	if err != nil {
		return evidence.Evidence{}, err
	}
	return evidence.New(f.ID, payload, 0.85, a.source, a.clock())
}

// ReportSource supplies the most recent periodic compliance review for a
// firm.
type ReportSource interface {
	LatestReport(ctx context.Context, firmID string) (evidence.ComplianceReport, error)
}

// ComplianceAgent surfaces the latest compliance review as
// compliance_report evidence. Reviews are produced in-house so they carry
// the highest confidence of any agent.
type ComplianceAgent struct {
	reports ReportSource
	source  evidence.Source
	clock   func() time.Time
}

func NewComplianceAgent(reports ReportSource, source evidence.Source) *ComplianceAgent {
	return &ComplianceAgent{reports: reports, source: source, clock: time.Now}
}

func (a *ComplianceAgent) Name() string { return AgentComplianceReport }

func (a *ComplianceAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	payload, err := a.reports.LatestReport(ctx, f.ID)
	if err != nil {
		return evidence.Evidence{}, err
	}
	return evidence.New(f.ID, payload, 0.95, a.source, a.clock())
}
