package models

import "time"

// Event types recorded by the dashboard.
const (
	EventFetchError      = "FETCH_ERROR"
	EventSessionCreated  = "SESSION_CREATED"
	EventSessionRejected = "SESSION_REJECTED"
)

// DashboardEvent is a single entry of the dashboard activity log.
type DashboardEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // FETCH_ERROR | SESSION_CREATED | SESSION_REJECTED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// WidgetState is the last successfully rendered payload of one widget,
// kept so a restart does not start from an empty page.
type WidgetState struct {
	Widget    string    `json:"widget"`
	Payload   []byte    `json:"payload"` // JSON
	UpdatedAt time.Time `json:"updated_at"`
}
