// Package audit captures key pipeline actions for compliance review. Events
// are emitted from domain logic and fanned out through a publisher so sinks
// can vary by deployment.
package audit

import "time"

// EventCategory classifies audit events by their primary purpose, enabling
// different retention policies and routing per category.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance that
	// need long retention, such as scoring runs and sanctions hits.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events that feed monitoring and alerting.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic. It stays transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	FirmID    string        `json:"firm_id,omitempty"`
	Action    string        `json:"action"`
	Actor     string        `json:"actor,omitempty"`
	Decision  string        `json:"decision,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventVerificationCompleted AuditEvent = "verification_completed"
	EventSanctionsHit          AuditEvent = "sanctions_hit"
	EventEvidenceAppended      AuditEvent = "evidence_appended"
	EventSnapshotSaved         AuditEvent = "snapshot_saved"
	EventConfigPublished       AuditEvent = "config_published"
	EventConfigActivated       AuditEvent = "config_activated"
	EventAdminLogin            AuditEvent = "admin_login"
	EventAdminLoginFailed      AuditEvent = "admin_login_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationCompleted: CategoryCompliance,
	EventSanctionsHit:          CategoryCompliance,
	EventSnapshotSaved:         CategoryCompliance,
	EventConfigActivated:       CategoryCompliance,
	EventConfigPublished:       CategoryOperations,
	EventEvidenceAppended:      CategoryOperations,
	EventAdminLogin:            CategorySecurity,
	EventAdminLoginFailed:      CategorySecurity,
}

// CategoryOf returns the category for a known event, defaulting to
// operations for anything unmapped.
func CategoryOf(action AuditEvent) EventCategory {
	if cat, ok := eventCategories[action]; ok {
		return cat
	}
	return CategoryOperations
}
