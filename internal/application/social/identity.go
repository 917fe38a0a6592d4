package social

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

const aliasPrefix = "guest-"

// ActivityID is the dedup identity of a delivery:
//
//	hex(sha256(providerEventID + ":" + eventType + ":" + eventKey))
//
// Changing this composition changes what counts as a duplicate, so existing
// activity logs would stop deduplicating against new deliveries.
func ActivityID(providerEventID, eventType, eventKey string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{providerEventID, eventType, eventKey}, ":")))
	return hex.EncodeToString(sum[:])
}

// AttendeeAlias is a pseudonym taken from the activity id. It never carries
// attendee data.
func AttendeeAlias(activityID string) string {
	n := 6
	if len(activityID) < n {
		n = len(activityID)
	}
	return aliasPrefix + activityID[:n]
}

// NewActivityRecord builds the log row for a validated payload.
func NewActivityRecord(f Fingerprint, payload json.RawMessage, now time.Time) domain.ActivityRecord {
	id := ActivityID(f.ProviderEventID, f.EventType, f.EventKey)
	return domain.ActivityRecord{
		ID:            id,
		At:            now.UTC(),
		EventType:     f.EventType,
		EventKey:      f.EventKey,
		EventID:       f.EventID,
		EventTitle:    f.EventTitle,
		City:          f.City,
		Status:        f.Status,
		Quantity:      f.Quantity,
		AttendeeAlias: AttendeeAlias(id),
		RawPayload:    payload,
	}
}
