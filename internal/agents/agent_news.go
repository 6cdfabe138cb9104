package agents

import (
	"context"
	"time"

	"trustlens/internal/evidence"
	"trustlens/internal/firm"
)

// Headline is one raw press item before classification.
type Headline struct {
	Text        string
	PublishedAt time.Time
}

// NewsFeed supplies recent regulatory press coverage mentioning a firm.
type NewsFeed interface {
	Headlines(ctx context.Context, firmName string) ([]Headline, error)
}

// NewsAgent classifies regulatory press coverage and emits regulatory_news
// evidence. An empty feed is still evidence: no coverage is a signal on its
// own, just a weak one.
type NewsAgent struct {
	feed     NewsFeed
	classify Classifier
	source   evidence.Source
	clock    func() time.Time
}

func NewNewsAgent(feed NewsFeed, classify Classifier, source evidence.Source) *NewsAgent {
	if classify == nil {
		classify = KeywordClassifier
	}
	return &NewsAgent{feed: feed, classify: classify, source: source, clock: time.Now}
}

func (a *NewsAgent) Name() string { return AgentRegulatoryNews }

func (a *NewsAgent) Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error) {
	headlines, err := a.feed.Headlines(ctx, f.Name)
	if err != nil {
		return evidence.Evidence{}, err
	}

	items := make([]evidence.NewsItem, 0, len(headlines))
	for _, h := range headlines {
		category, severity := a.classify(h.Text)
		items = append(items, evidence.NewsItem{
			Headline:    h.Text,
			Category:    category,
			Severity:    severity,
			PublishedAt: h.PublishedAt,
		})
	}

	confidence := 0.7
	if len(items) == 0 {
		confidence = 0.3
	}
	return evidence.New(f.ID, evidence.RegulatoryNews{Items: items}, confidence, a.source, a.clock())
}
