package event

import "time"

const (
	EnvelopeVersion = 1
	Producer        = "social-service"

	RoutingKeyActivityRecorded = "social.activity.recorded"
)

// DomainEventEnvelope is the canonical envelope consumed across services.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	TraceID    string    `json:"trace_id,omitempty"`
	MessageID  string    `json:"message_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// ActivityRecordedPayload is emitted once per freshly ingested delivery.
// message_id is the activity id, so consumers can dedupe on it.
type ActivityRecordedPayload struct {
	ActivityID   string `json:"activity_id"`
	EventKey     string `json:"event_key"`
	EventType    string `json:"event_type"`
	Quantity     int    `json:"quantity"`
	GoingDelta   int    `json:"going_delta"`
	PendingDelta int    `json:"pending_delta"`
	GoingCount   *int   `json:"going_count,omitempty"` // nil when the aggregate did not move
	PendingCount *int   `json:"pending_count,omitempty"`
}
