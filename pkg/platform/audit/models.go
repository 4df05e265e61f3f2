package audit

import (
	"context"
	"time"

	id "clubdir/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring and forensics.
	// Examples: denied mutations, malformed grant rows, onboarding rejections.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational visibility.
	// These can be sampled or aggregated with shorter retention.
	// Examples: allowed decisions, list predicate compilations.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the authorization engine to capture decisions and
// anomalies. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	Principal id.PrincipalID
	Action    string
	// Resource identifies what was decided on: type plus instance id or
	// scope summary for list/create decisions.
	ResourceType string
	ResourceID   string
	Decision     string
	// Clause names the grant clause that produced an allow, empty on deny.
	Clause string
	Reason string
	// RequestID correlates the event with HTTP request logs.
	RequestID string
	ClientIP  string
	// ClientSummary is the condensed browser/os pair, never the raw UA.
	ClientSummary string
}

// AuditEvent names every event the engine emits.
type AuditEvent string

const (
	// Decision events
	EventAccessAllowed  AuditEvent = "access_allowed"
	EventAccessDenied   AuditEvent = "access_denied"
	EventListCompiled   AuditEvent = "list_predicate_compiled"
	EventDeleteBlocked  AuditEvent = "delete_blocked"
	EventDeleteCleared  AuditEvent = "delete_cleared"
	EventOnboardAllowed AuditEvent = "onboarding_allowed"
	EventOnboardDenied  AuditEvent = "onboarding_denied"

	// Anomaly events
	EventMalformedGrant   AuditEvent = "malformed_grant_skipped"
	EventStoreUnavailable AuditEvent = "store_unavailable"
)

// eventCategories maps each audit event to its category.
// Security: security monitoring, SIEM integration, alerting.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	EventAccessDenied:     CategorySecurity,
	EventDeleteBlocked:    CategorySecurity,
	EventOnboardDenied:    CategorySecurity,
	EventMalformedGrant:   CategorySecurity,
	EventStoreUnavailable: CategorySecurity,

	EventAccessAllowed:  CategoryOperations,
	EventListCompiled:   CategoryOperations,
	EventDeleteCleared:  CategoryOperations,
	EventOnboardAllowed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Publisher emits audit events for security-relevant operations.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPrincipal(ctx context.Context, principal id.PrincipalID) ([]Event, error)
}
