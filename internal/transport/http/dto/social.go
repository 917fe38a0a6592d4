package dto

import "time"

// WebhookResp is the webhook acknowledgement. duplicate is only present on redelivery.
type WebhookResp struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate,omitempty"`
}

type SummaryResp struct {
	TotalGoing   int `json:"totalGoing"`
	TotalPending int `json:"totalPending"`
	LiveEvents   int `json:"liveEvents"`
}

// EventResp mirrors an aggregate row. Absent metadata is null.
type EventResp struct {
	EventKey     string    `json:"eventKey"`
	EventID      *string   `json:"eventId"`
	EventTitle   *string   `json:"eventTitle"`
	City         *string   `json:"city"`
	GoingCount   int       `json:"goingCount"`
	PendingCount int       `json:"pendingCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ActivityResp is one activity log entry. The raw payload is not exposed.
type ActivityResp struct {
	ID            string    `json:"id"`
	At            time.Time `json:"at"`
	EventType     string    `json:"eventType"`
	EventKey      *string   `json:"eventKey"`
	EventID       *string   `json:"eventId"`
	EventTitle    *string   `json:"eventTitle"`
	City          *string   `json:"city"`
	Status        *string   `json:"status"`
	Quantity      int       `json:"quantity"`
	AttendeeAlias string    `json:"attendeeAlias"`
}

type SnapshotResp struct {
	OK       bool           `json:"ok"`
	Now      time.Time      `json:"now"`
	Summary  SummaryResp    `json:"summary"`
	Events   []EventResp    `json:"events"`
	Activity []ActivityResp `json:"activity"`
}
