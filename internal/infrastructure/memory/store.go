package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/application/social"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

const (
	DefaultActivityCap = 120

	// seen ids kept per activity slot
	seenFactor = 50
)

// Store keeps aggregates and a bounded activity log in process memory.
// A whole delivery (dedup check, insert, merge) runs under one lock, so the
// per-key read-modify-write has no suspension point between load and store.
// Pruned records stay in seen, a ring of the last activityCap*50 ids, so a
// redelivery of an id older than that is accepted again.
type Store struct {
	mu          sync.Mutex
	activityCap int
	aggregates  map[string]domain.EventAggregate
	activity    map[string]domain.ActivityRecord

	seen     map[string]struct{}
	seenRing []string
	seenNext int
}

func New(activityCap int) *Store {
	if activityCap <= 0 {
		activityCap = DefaultActivityCap
	}
	return &Store{
		activityCap: activityCap,
		aggregates:  make(map[string]domain.EventAggregate),
		activity:    make(map[string]domain.ActivityRecord),
		seen:        make(map[string]struct{}),
		seenRing:    make([]string, activityCap*seenFactor),
	}
}

// remember adds id to the seen ring, evicting the oldest id when full.
// Caller holds mu.
func (s *Store) remember(id string) {
	if old := s.seenRing[s.seenNext]; old != "" {
		delete(s.seen, old)
	}
	s.seenRing[s.seenNext] = id
	s.seen[id] = struct{}{}
	s.seenNext = (s.seenNext + 1) % len(s.seenRing)
}

func (s *Store) Backend() string { return "memory" }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) WithTx(ctx context.Context, fn func(tx social.StoreTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStore{
		s:          s,
		aggregates: make(map[string]domain.EventAggregate),
		activity:   make(map[string]domain.ActivityRecord),
	}
	if err := fn(tx); err != nil {
		// staged writes are dropped
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) ListAggregates(ctx context.Context) ([]domain.EventAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.EventAggregate, 0, len(s.aggregates))
	for _, a := range s.aggregates {
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	s.mu.Lock()
	out := make([]domain.ActivityRecord, 0, len(s.activity))
	for _, r := range s.activity {
		out = append(out, r)
	}
	s.mu.Unlock()

	domain.SortActivity(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// prune keeps the activityCap most recent records. Records in fresh are
// always kept, even if their timestamps sort behind older ones. Caller holds mu.
func (s *Store) prune(fresh map[string]domain.ActivityRecord) {
	if len(s.activity) <= s.activityCap {
		return
	}
	rest := make([]domain.ActivityRecord, 0, len(s.activity))
	for id, r := range s.activity {
		if _, ok := fresh[id]; !ok {
			rest = append(rest, r)
		}
	}
	domain.SortActivity(rest)

	keep := s.activityCap - len(fresh)
	if keep < 0 {
		keep = 0
	}
	if keep > len(rest) {
		keep = len(rest)
	}
	for _, r := range rest[keep:] {
		delete(s.activity, r.ID)
	}
}

// txStore stages writes until fn returns without error.
type txStore struct {
	s          *Store
	aggregates map[string]domain.EventAggregate
	activity   map[string]domain.ActivityRecord
}

func (t *txStore) InsertActivity(ctx context.Context, rec domain.ActivityRecord) (bool, error) {
	if _, ok := t.s.seen[rec.ID]; ok {
		return false, nil
	}
	if _, ok := t.s.activity[rec.ID]; ok {
		return false, nil
	}
	if _, ok := t.activity[rec.ID]; ok {
		return false, nil
	}
	t.activity[rec.ID] = rec
	return true, nil
}

func (t *txStore) MergeAggregate(ctx context.Context, key string, d domain.Delta, meta domain.EventMeta, now time.Time) (domain.EventAggregate, error) {
	cur, ok := t.aggregates[key]
	if !ok {
		cur, ok = t.s.aggregates[key]
	}
	if !ok {
		cur = domain.SeedAggregate(key, meta, now)
	}
	next := cur.Merge(d, meta, now)
	t.aggregates[key] = next
	return next, nil
}

func (t *txStore) commit() {
	for k, a := range t.aggregates {
		t.s.aggregates[k] = a
	}
	for id, r := range t.activity {
		t.s.activity[id] = r
		t.s.remember(id)
	}
	t.s.prune(t.activity)
}

var _ social.Store = (*Store)(nil)
