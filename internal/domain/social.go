package domain

import (
	"encoding/json"
	"time"
)

const (
	// UnknownEventKey is used when a delivery carries neither an event id nor a title.
	UnknownEventKey = "unknown"
	// UnknownEventType is used when no event type field is present.
	UnknownEventType = "unknown"

	MinQuantity = 1
	MaxQuantity = 20
)

// EventAggregate is the running per-event counter row.
// Empty strings stand for absent metadata.
type EventAggregate struct {
	EventKey     string
	EventID      string
	EventTitle   string
	City         string
	GoingCount   int
	PendingCount int
	UpdatedAt    time.Time
}

// EventMeta is the descriptive metadata carried by one delivery.
type EventMeta struct {
	EventID    string
	EventTitle string
	City       string
}

// ActivityRecord is one accepted webhook delivery. Never mutated after insert.
type ActivityRecord struct {
	ID            string
	At            time.Time
	EventType     string
	EventKey      string
	EventID       string
	EventTitle    string
	City          string
	Status        string
	Quantity      int
	AttendeeAlias string
	RawPayload    json.RawMessage
}

func (r ActivityRecord) Meta() EventMeta {
	return EventMeta{EventID: r.EventID, EventTitle: r.EventTitle, City: r.City}
}

// Delta is a signed adjustment to the two running counters.
type Delta struct {
	Going   int
	Pending int
}

func (d Delta) IsZero() bool { return d.Going == 0 && d.Pending == 0 }

type Summary struct {
	TotalGoing   int
	TotalPending int
	LiveEvents   int
}

// Snapshot is the computed read view. It is never stored.
type Snapshot struct {
	Now      time.Time
	Summary  Summary
	Events   []EventAggregate
	Activity []ActivityRecord
}
