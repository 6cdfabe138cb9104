// Package evidence models immutable typed observations about a firm. Each
// observation is one of a closed set of kinds with its own strongly typed
// payload; corrections are new records, never mutations.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the closed set of evidence types.
type Kind string

const (
	KindRegistryCheck    Kind = "registry_check"
	KindSanctionsScreen  Kind = "sanctions_screen"
	KindReputation       Kind = "reputation"
	KindRegulatoryNews   Kind = "regulatory_news"
	KindSubmission       Kind = "submission"
	KindInvestigation    Kind = "investigation"
	KindComplianceReport Kind = "compliance_report"
)

// Source records whether evidence came from a primary source or a mock
// backend. Mock evidence never feeds production scores.
type Source string

const (
	SourcePrimary Source = "PRIMARY"
	SourceMock    Source = "MOCK"
)

// Payload is the kind-specific content of an observation. The set of
// implementations is closed; adding a kind means adding a payload type here.
type Payload interface {
	Kind() Kind
}

// Evidence is one immutable observation backing a score.
type Evidence struct {
	ID          uuid.UUID
	FirmID      string
	Confidence  float64 // [0,1]
	Source      Source
	CollectedAt time.Time
	Payload     Payload
	ContentHash string // dedup key over (firm, kind, payload)
}

// New validates and assembles an Evidence record, computing its content hash.
func New(firmID string, payload Payload, confidence float64, source Source, collectedAt time.Time) (Evidence, error) {
	if firmID == "" {
		return Evidence{}, fmt.Errorf("firm ID is required")
	}
	if payload == nil {
		return Evidence{}, fmt.Errorf("payload is required")
	}
	if confidence < 0 || confidence > 1 {
		return Evidence{}, fmt.Errorf("confidence %v outside [0,1]", confidence)
	}
	if source != SourcePrimary && source != SourceMock {
		return Evidence{}, fmt.Errorf("unknown data source %q", source)
	}

	hash, err := contentHash(firmID, payload)
	if err != nil {
		return Evidence{}, fmt.Errorf("hash evidence: %w", err)
	}

	return Evidence{
		ID:          uuid.New(),
		FirmID:      firmID,
		Confidence:  confidence,
		Source:      source,
		CollectedAt: collectedAt,
		Payload:     payload,
		ContentHash: hash,
	}, nil
}

// contentHash produces a stable digest for dedup. Collection time and
// confidence are excluded so re-observations of identical facts collapse.
func contentHash(firmID string, payload Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(firmID))
	h.Write([]byte{0})
	h.Write([]byte(payload.Kind()))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Kind returns the evidence kind carried by the payload.
func (e Evidence) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}
