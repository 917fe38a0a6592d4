package domain

import (
	"math"
	"time"
)

// SeedAggregate is the zeroed row used when no aggregate exists yet for key.
func SeedAggregate(key string, meta EventMeta, now time.Time) EventAggregate {
	return EventAggregate{
		EventKey:   key,
		EventID:    meta.EventID,
		EventTitle: meta.EventTitle,
		City:       meta.City,
		UpdatedAt:  now.UTC(),
	}
}

// Merge applies d to a and returns the new row. Counts truncate at zero and
// metadata is only filled where a has none. UpdatedAt always advances to now.
func (a EventAggregate) Merge(d Delta, meta EventMeta, now time.Time) EventAggregate {
	out := a
	out.GoingCount = clampAdd(a.GoingCount, d.Going)
	out.PendingCount = clampAdd(a.PendingCount, d.Pending)
	if out.EventID == "" {
		out.EventID = meta.EventID
	}
	if out.EventTitle == "" {
		out.EventTitle = meta.EventTitle
	}
	if out.City == "" {
		out.City = meta.City
	}
	out.UpdatedAt = now.UTC()
	return out
}

func clampAdd(base, delta int) int {
	if base < 0 {
		base = 0
	}
	sum := int64(base) + int64(delta)
	switch {
	case sum < 0:
		return 0
	case sum > math.MaxInt32:
		return math.MaxInt32
	default:
		return int(sum)
	}
}

// ClampQuantity floors q and bounds it to [MinQuantity, MaxQuantity].
// NaN and infinities fall back to MinQuantity.
func ClampQuantity(q float64) int {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return MinQuantity
	}
	q = math.Floor(q)
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return int(q)
}
