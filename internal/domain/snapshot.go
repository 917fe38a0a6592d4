package domain

import (
	"sort"
	"time"
)

// BuildSnapshot sums totals and orders both lists. Events go by going count
// desc, then most recent update, then key. Activity goes most recent first
// and is capped at activityLimit (<= 0 means no cap).
func BuildSnapshot(now time.Time, events []EventAggregate, activity []ActivityRecord, activityLimit int) Snapshot {
	evs := make([]EventAggregate, len(events))
	copy(evs, events)
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].GoingCount != evs[j].GoingCount {
			return evs[i].GoingCount > evs[j].GoingCount
		}
		if !evs[i].UpdatedAt.Equal(evs[j].UpdatedAt) {
			return evs[i].UpdatedAt.After(evs[j].UpdatedAt)
		}
		return evs[i].EventKey < evs[j].EventKey
	})

	acts := make([]ActivityRecord, len(activity))
	copy(acts, activity)
	SortActivity(acts)
	if activityLimit > 0 && len(acts) > activityLimit {
		acts = acts[:activityLimit]
	}

	var sum Summary
	for _, e := range evs {
		sum.TotalGoing += e.GoingCount
		sum.TotalPending += e.PendingCount
		if e.GoingCount > 0 || e.PendingCount > 0 {
			sum.LiveEvents++
		}
	}

	return Snapshot{
		Now:      now.UTC(),
		Summary:  sum,
		Events:   evs,
		Activity: acts,
	}
}

// SortActivity orders records most recent first; ties break on id.
func SortActivity(acts []ActivityRecord) {
	sort.SliceStable(acts, func(i, j int) bool {
		if !acts[i].At.Equal(acts[j].At) {
			return acts[i].At.After(acts[j].At)
		}
		return acts[i].ID < acts[j].ID
	})
}
