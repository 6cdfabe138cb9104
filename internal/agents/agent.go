// Package agents orchestrates the pluggable evidence producers. Each agent
// collects one kind of typed evidence for a firm; the registry fans them out,
// isolates per-agent failures, and assembles the firm-level evidence bundle.
package agents

import (
	"context"

	"trustlens/internal/evidence"
	"trustlens/internal/firm"
)

// Agent produces one kind of evidence for a firm.
type Agent interface {
	// Name identifies the agent within a registry; it keys the result map.
	Name() string
	// Collect gathers this agent's evidence for the firm.
	Collect(ctx context.Context, f firm.Firm) (evidence.Evidence, error)
}

// Outcome is one agent's slot in a firm verification: either evidence or a
// failure marker. One agent failing never empties another agent's slot.
type Outcome struct {
	Evidence       *evidence.Evidence `json:"evidence,omitempty"`
	Failed         bool               `json:"failed,omitempty"`
	FailureMessage string             `json:"failure_message,omitempty"`
}

// FirmResult pairs a firm with its complete evidence bundle. Every
// registered agent is represented in Outcomes.
type FirmResult struct {
	Firm     firm.Firm          `json:"firm"`
	Outcomes map[string]Outcome `json:"outcomes"`
}
