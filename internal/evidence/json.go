package evidence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// envelope is the persisted wire shape: the kind tag selects the payload type
// on decode, keeping the union closed.
type envelope struct {
	ID          uuid.UUID       `json:"id"`
	FirmID      string          `json:"firm_id"`
	Kind        Kind            `json:"evidence_type"`
	Confidence  float64         `json:"confidence"`
	Source      Source          `json:"data_source"`
	CollectedAt time.Time       `json:"collected_at"`
	ContentHash string          `json:"content_hash"`
	Payload     json.RawMessage `json:"payload"`
}

func (e Evidence) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		ID:          e.ID,
		FirmID:      e.FirmID,
		Kind:        e.Kind(),
		Confidence:  e.Confidence,
		Source:      e.Source,
		CollectedAt: e.CollectedAt,
		ContentHash: e.ContentHash,
		Payload:     body,
	})
}

func (e *Evidence) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	payload, err := decodePayload(env.Kind, env.Payload)
	if err != nil {
		return err
	}

	*e = Evidence{
		ID:          env.ID,
		FirmID:      env.FirmID,
		Confidence:  env.Confidence,
		Source:      env.Source,
		CollectedAt: env.CollectedAt,
		ContentHash: env.ContentHash,
		Payload:     payload,
	}
	return nil
}

func decodePayload(kind Kind, raw json.RawMessage) (Payload, error) {
	var payload Payload
	switch kind {
	case KindRegistryCheck:
		payload = &RegistryCheck{}
	case KindSanctionsScreen:
		payload = &SanctionsScreen{}
	case KindReputation:
		payload = &Reputation{}
	case KindRegulatoryNews:
		payload = &RegulatoryNews{}
	case KindSubmission:
		payload = &Submission{}
	case KindInvestigation:
		payload = &Investigation{}
	case KindComplianceReport:
		payload = &ComplianceReport{}
	default:
		return nil, fmt.Errorf("unknown evidence type %q", kind)
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return deref(payload), nil
}

// deref returns the value form so Evidence payloads compare by value.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *RegistryCheck:
		return *v
	case *SanctionsScreen:
		return *v
	case *Reputation:
		return *v
	case *RegulatoryNews:
		return *v
	case *Submission:
		return *v
	case *Investigation:
		return *v
	case *ComplianceReport:
		return *v
	default:
		return p
	}
}
