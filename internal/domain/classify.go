package domain

import "strings"

// Classify maps a delivery to counter adjustments. Matching is lower-cased
// substring matching and the first rule that matches wins, so "new order"
// is handled by the "new" rule before the "order" catch-all.
func Classify(eventType, status string, quantity int) Delta {
	if quantity <= 0 {
		return Delta{}
	}
	et := strings.ToLower(eventType)
	st := strings.ToLower(status)

	switch {
	case strings.Contains(et, "pending"):
		return Delta{Pending: quantity}
	case strings.Contains(et, "updated"):
		switch {
		case containsAny(st, "refund", "cancel", "void"):
			return Delta{Going: -quantity}
		case containsAny(st, "approved", "accept", "complete", "paid"):
			return Delta{Going: quantity, Pending: -quantity}
		default:
			// unknown transition: ignored rather than guessed
			return Delta{}
		}
	case strings.Contains(et, "new"):
		return Delta{Going: quantity}
	case strings.Contains(et, "order"):
		return Delta{Going: quantity}
	default:
		return Delta{}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
