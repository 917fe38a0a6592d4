package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

func TestSnapshotFromDomain(t *testing.T) {
	at := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	snap := domain.Snapshot{
		Now:     at,
		Summary: domain.Summary{TotalGoing: 2, TotalPending: 1, LiveEvents: 1},
		Events: []domain.EventAggregate{
			{EventKey: "e1", EventID: "e1", EventTitle: "Launch Night", GoingCount: 2, PendingCount: 1, UpdatedAt: at},
		},
		Activity: []domain.ActivityRecord{
			{
				ID: "abc", At: at, EventType: "new order", EventKey: "e1", EventID: "e1",
				Quantity: 2, AttendeeAlias: "guest-abc",
				RawPayload: json.RawMessage(`{"email":"someone@example.com"}`),
			},
		},
	}

	b, err := json.Marshal(SnapshotFromDomain(snap))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"ok": true,
		"now": "2026-03-01T20:00:00Z",
		"summary": {"totalGoing": 2, "totalPending": 1, "liveEvents": 1},
		"events": [{
			"eventKey": "e1", "eventId": "e1", "eventTitle": "Launch Night", "city": null,
			"goingCount": 2, "pendingCount": 1, "updatedAt": "2026-03-01T20:00:00Z"
		}],
		"activity": [{
			"id": "abc", "at": "2026-03-01T20:00:00Z", "eventType": "new order",
			"eventKey": "e1", "eventId": "e1", "eventTitle": null, "city": null, "status": null,
			"quantity": 2, "attendeeAlias": "guest-abc"
		}]
	}`, string(b))
	assert.NotContains(t, string(b), "someone@example.com")
}

func TestSnapshotFromDomain_EmptyListsEncodeAsArrays(t *testing.T) {
	b, err := json.Marshal(SnapshotFromDomain(domain.Snapshot{}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"events":[]`)
	assert.Contains(t, string(b), `"activity":[]`)
}

func TestWebhookResp_OmitsDuplicateWhenFalse(t *testing.T) {
	b, _ := json.Marshal(WebhookResp{OK: true})
	assert.JSONEq(t, `{"ok":true}`, string(b))

	b, _ = json.Marshal(WebhookResp{OK: true, Duplicate: true})
	assert.JSONEq(t, `{"ok":true,"duplicate":true}`, string(b))
}
