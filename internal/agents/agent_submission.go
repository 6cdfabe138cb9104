package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/mssola/useragent"

	"trustlens/internal/evidence"
	"trustlens/internal/firm"
	"trustlens/pkg/sentinel"
)

// UserSubmission is a community report as stored by the intake channel.
// RawUserAgent is kept verbatim at intake; agents summarize it before it
// leaves this package.
type UserSubmission struct {
	FirmID       string
	Channel      string
	Category     string
	Summary      string
	DelayDays    int
	RawUserAgent string
	SubmittedAt  time.Time
}

// SubmissionStore supplies community reports filed against a firm, newest
// first.
type SubmissionStore interface {
	ByFirm(ctx context.Context, firmID string) ([]UserSubmission, error)
}

// SubmissionAgent surfaces the most recent community report as submission
// evidence. Community reports are unverified, so confidence stays low.
type SubmissionAgent struct {
	store  SubmissionStore
	source evidence.Source
	clock  func() time.Time
}

func NewSubmissionAgent(store SubmissionStore, source evidence.Source) *SubmissionAgent {
	return &SubmissionAgent{store: store, source: source, clock: time.Now}
}

func (a *SubmissionAgent) Name() string { return AgentSubmissions }

func (a *SubmissionAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	subs, err := a.store.ByFirm(ctx, f.ID)
	if err != nil {
		return evidence.Evidence{}, err
	}
	if len(subs) == 0 {
		return evidence.Evidence{}, fmt.Errorf("submissions for firm %s: %w", f.ID, sentinel.ErrNotFound)
	}

	latest := subs[0]
	payload := evidence.Submission{
		Channel:       latest.Channel,
		Category:      latest.Category,
		Summary:       latest.Summary,
		DelayDays:     latest.DelayDays,
		ReporterAgent: summarizeUserAgent(latest.RawUserAgent),
	}
	return evidence.New(f.ID, payload, 0.4, a.source, a.clock())
}

// summarizeUserAgent reduces a raw User-Agent header to a browser/OS summary
// so the stored evidence carries no fingerprintable string.
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
