package agents

import "strings"

// Classifier assigns a category and severity to a regulatory headline.
// Implementations are pure functions so they can be unit-tested in isolation
// and swapped without touching the news agent.
type Classifier func(headline string) (category, severity string)

// Keyword groups for the default classifier, checked in order: enforcement
// terms dominate warnings, warnings dominate routine coverage.
var (
	enforcementTerms = []string{"fine", "fined", "penalty", "enforcement", "fraud", "ban", "banned", "revoked", "final notice"}
	warningTerms     = []string{"warning", "investigation", "probe", "suspended", "complaint", "dispute"}
)

// KeywordClassifier is the default headline classifier.
func KeywordClassifier(headline string) (string, string) {
	lower := strings.ToLower(headline)
	for _, term := range enforcementTerms {
		if strings.Contains(lower, term) {
			return "enforcement", "high"
		}
	}
	for _, term := range warningTerms {
		if strings.Contains(lower, term) {
			return "warning", "medium"
		}
	}
	return "routine", "low"
}
