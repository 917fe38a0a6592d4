package dto

import "github.com/baechuer/real-time-ressys/services/social-service/internal/domain"

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func EventFromDomain(a domain.EventAggregate) EventResp {
	return EventResp{
		EventKey:     a.EventKey,
		EventID:      nullable(a.EventID),
		EventTitle:   nullable(a.EventTitle),
		City:         nullable(a.City),
		GoingCount:   a.GoingCount,
		PendingCount: a.PendingCount,
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
}

func ActivityFromDomain(r domain.ActivityRecord) ActivityResp {
	return ActivityResp{
		ID:            r.ID,
		At:            r.At.UTC(),
		EventType:     r.EventType,
		EventKey:      nullable(r.EventKey),
		EventID:       nullable(r.EventID),
		EventTitle:    nullable(r.EventTitle),
		City:          nullable(r.City),
		Status:        nullable(r.Status),
		Quantity:      r.Quantity,
		AttendeeAlias: r.AttendeeAlias,
	}
}

// SnapshotFromDomain always returns non-nil slices so empty lists encode as [].
func SnapshotFromDomain(s domain.Snapshot) SnapshotResp {
	out := SnapshotResp{
		OK:  true,
		Now: s.Now.UTC(),
		Summary: SummaryResp{
			TotalGoing:   s.Summary.TotalGoing,
			TotalPending: s.Summary.TotalPending,
			LiveEvents:   s.Summary.LiveEvents,
		},
		Events:   make([]EventResp, 0, len(s.Events)),
		Activity: make([]ActivityResp, 0, len(s.Activity)),
	}
	for _, a := range s.Events {
		out.Events = append(out.Events, EventFromDomain(a))
	}
	for _, r := range s.Activity {
		out.Activity = append(out.Activity, ActivityFromDomain(r))
	}
	return out
}
