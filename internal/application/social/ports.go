package social

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// Store is the aggregator's persistence. Postgres and memory implement it
// with identical invariants; one is chosen at process start.
type Store interface {
	// Backend names the implementation ("postgres", "memory").
	Backend() string
	Ping(ctx context.Context) error

	// WithTx runs fn as one unit per delivery: either everything fn wrote
	// is kept or nothing is.
	WithTx(ctx context.Context, fn func(tx StoreTx) error) error

	ListAggregates(ctx context.Context) ([]domain.EventAggregate, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.ActivityRecord, error)
}

type StoreTx interface {
	// InsertActivity returns false without writing when rec.ID already exists.
	InsertActivity(ctx context.Context, rec domain.ActivityRecord) (bool, error)
	// MergeAggregate is an atomic per-key read-modify-write of the counters.
	MergeAggregate(ctx context.Context, key string, d domain.Delta, meta domain.EventMeta, now time.Time) (domain.EventAggregate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}
