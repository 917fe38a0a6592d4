package social

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

// Candidate gjson paths, in priority order. Ticketing vendors rename fields
// without notice, so every lookup degrades to a default instead of failing.
var (
	eventTypePaths = []string{"type", "event", "webhookType", "webhook_type", "eventType", "event_type", "topic"}
	eventIDPaths   = []string{"eventId", "event_id", "event.id", "event._id", "order.eventId", "order.event_id", "data.eventId", "data.event_id"}

	eventTitlePaths = []string{
		"eventTitle", "event_title", "eventName", "event_name", "event.title", "event.name",
		"order.eventTitle", "order.eventName", "data.eventTitle", "data.eventName",
	}

	cityPaths = []string{
		"city", "event.city", "event.location.city", "event.venue.city", "venue.city",
		"location.city", "order.city", "data.city",
	}

	statusPaths = []string{
		"status", "order.status", "financialStatus", "financial_status",
		"order.financialStatus", "order.financial_status", "data.status",
	}

	quantityPaths = []string{
		"quantity", "qty", "ticketCount", "ticket_count", "order.quantity",
		"order.ticketCount", "order.ticket_count", "data.quantity",
	}
	ticketListPath = "order.tickets"

	providerIDPaths = []string{
		"id", "webhook_id", "webhookId", "delivery_id", "deliveryId",
		"order.id", "order._id", "orderId", "order_id", "data.id",
	}
)

// Fingerprint is the typed view of one untrusted webhook body.
type Fingerprint struct {
	EventType       string
	EventID         string
	EventTitle      string
	City            string
	Status          string
	Quantity        int
	EventKey        string
	ProviderEventID string
}

func (f Fingerprint) Meta() domain.EventMeta {
	return domain.EventMeta{EventID: f.EventID, EventTitle: f.EventTitle, City: f.City}
}

// ExtractFingerprint never fails: malformed or missing fields fall back to
// their defaults.
func ExtractFingerprint(raw []byte) Fingerprint {
	f := Fingerprint{
		EventType:  firstString(raw, eventTypePaths),
		EventID:    firstString(raw, eventIDPaths),
		EventTitle: firstString(raw, eventTitlePaths),
		City:       firstString(raw, cityPaths),
		Status:     firstString(raw, statusPaths),
		Quantity:   extractQuantity(raw),
	}
	if f.EventType == "" {
		f.EventType = domain.UnknownEventType
	}
	f.EventKey = EventKey(f.EventID, f.EventTitle)

	f.ProviderEventID = firstString(raw, providerIDPaths)
	if f.ProviderEventID == "" {
		// identical id-less deliveries must still collapse to one identity
		f.ProviderEventID = fmt.Sprintf("%s:%s:%d", f.EventType, f.EventKey, f.Quantity)
	}
	return f
}

// EventKey prefers the vendor event id, then the normalized title.
func EventKey(eventID, title string) string {
	if id := strings.TrimSpace(eventID); id != "" {
		return id
	}
	if t := strings.ToLower(strings.Join(strings.Fields(title), " ")); t != "" {
		return t
	}
	return domain.UnknownEventKey
}

func firstString(raw []byte, paths []string) string {
	for _, p := range paths {
		if s, ok := stringValue(gjson.GetBytes(raw, p)); ok {
			return s
		}
	}
	return ""
}

func stringValue(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String:
		s := strings.TrimSpace(cleanText(r.Str))
		return s, s != ""
	case gjson.Number:
		if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
			return "", false
		}
		return strconv.FormatFloat(r.Num, 'f', -1, 64), true
	default:
		return "", false
	}
}

// cleanText drops NUL and replaces invalid UTF-8; Postgres TEXT accepts neither.
func cleanText(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "\uFFFD")
}

func extractQuantity(raw []byte) int {
	for _, p := range quantityPaths {
		r := gjson.GetBytes(raw, p)
		switch r.Type {
		case gjson.Number:
			if !math.IsNaN(r.Num) && !math.IsInf(r.Num, 0) {
				return domain.ClampQuantity(r.Num)
			}
		case gjson.String:
			if v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
				return domain.ClampQuantity(v)
			}
		}
	}
	if tickets := gjson.GetBytes(raw, ticketListPath); tickets.IsArray() {
		if n := len(tickets.Array()); n > 0 {
			return domain.ClampQuantity(float64(n))
		}
	}
	return domain.MinQuantity
}
