package social

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	eventContract "github.com/baechuer/real-time-ressys/services/social-service/internal/contracts/event"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/metrics"
	appCtx "github.com/baechuer/real-time-ressys/services/social-service/internal/pkg/context"
)

const (
	DefaultActivityLimit = 30
	snapshotCacheKey     = "social:echo:snapshot"
)

type Service struct {
	store Store
	cache Cache
	pub   EventPublisher
	clock Clock

	activityLimit int
	cacheTTL      time.Duration
}

func New(store Store, clock Clock, pub EventPublisher, cache Cache, activityLimit int, cacheTTL time.Duration) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if activityLimit <= 0 {
		activityLimit = DefaultActivityLimit
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Second
	}
	return &Service{
		store:         store,
		cache:         cache,
		pub:           pub,
		clock:         clock,
		activityLimit: activityLimit,
		cacheTTL:      cacheTTL,
	}
}

func (s *Service) Backend() string { return s.store.Backend() }

func (s *Service) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// IngestResult describes what one delivery did.
type IngestResult struct {
	ActivityID string
	EventKey   string
	EventType  string
	Quantity   int
	Duplicate  bool
	Delta      domain.Delta
	Aggregate  *domain.EventAggregate
}

// DecodePayload accepts only a JSON object and returns it compacted.
// Invalid UTF-8 is replaced with U+FFFD; Postgres text and json columns
// reject it.
func DecodePayload(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(bytes.ToValidUTF8(body, []byte("\uFFFD")))
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		return nil, domain.ErrValidation("payload must be a JSON object")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, domain.ErrValidation("payload must be a JSON object")
	}
	return json.RawMessage(buf.Bytes()), nil
}

// Ingest validates, deduplicates, classifies and merges one delivery.
// The activity insert and the aggregate merge share one store transaction.
func (s *Service) Ingest(ctx context.Context, body []byte) (IngestResult, error) {
	payload, err := DecodePayload(body)
	if err != nil {
		return IngestResult{}, err
	}

	fp := ExtractFingerprint(payload)
	// microsecond precision matches what timestamptz stores
	now := s.clock.Now().UTC().Truncate(time.Microsecond)
	rec := NewActivityRecord(fp, payload, now)

	res := IngestResult{
		ActivityID: rec.ID,
		EventKey:   rec.EventKey,
		EventType:  rec.EventType,
		Quantity:   rec.Quantity,
	}

	err = s.store.WithTx(ctx, func(tx StoreTx) error {
		inserted, err := tx.InsertActivity(ctx, rec)
		if err != nil {
			return err
		}
		if !inserted {
			res.Duplicate = true
			return nil
		}

		d := domain.Classify(fp.EventType, fp.Status, fp.Quantity)
		res.Delta = d
		if d.IsZero() {
			// logged, but the aggregate does not move
			return nil
		}
		agg, err := tx.MergeAggregate(ctx, fp.EventKey, d, fp.Meta(), now)
		if err != nil {
			return err
		}
		res.Aggregate = &agg
		return nil
	})
	if err != nil {
		return IngestResult{}, domain.ErrStorage("record webhook activity", err)
	}
	if res.Duplicate {
		return res, nil
	}

	metrics.RecordDelta(res.Delta.Going, res.Delta.Pending)
	s.invalidateSnapshot(ctx)
	s.publishRecorded(ctx, rec, res, now)
	return res, nil
}

// Snapshot returns the combined read view. Backend failures surface as
// storage errors; they never fall back to another backend.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	backend := s.store.Backend()
	now := s.clock.Now().UTC()

	if s.cache != nil {
		var cached domain.Snapshot
		hit, err := s.cache.Get(ctx, snapshotCacheKey, &cached)
		if err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("snapshot cache get failed")
		} else if hit {
			metrics.RecordSnapshotRead(backend, "hit")
			cached.Now = now
			return cached, nil
		}
	}

	aggs, err := s.store.ListAggregates(ctx)
	if err != nil {
		metrics.RecordSnapshotRead(backend, "error")
		return domain.Snapshot{}, domain.ErrStorage("read event aggregates", err)
	}
	acts, err := s.store.RecentActivity(ctx, s.activityLimit)
	if err != nil {
		metrics.RecordSnapshotRead(backend, "error")
		return domain.Snapshot{}, domain.ErrStorage("read recent activity", err)
	}

	snap := domain.BuildSnapshot(now, aggs, acts, s.activityLimit)
	metrics.RecordSnapshotRead(backend, "miss")

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey, withoutRawPayload(snap), s.cacheTTL); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("snapshot cache set failed")
		}
	}
	return snap, nil
}

// withoutRawPayload keeps attendee data in the payloads out of the cache.
func withoutRawPayload(snap domain.Snapshot) domain.Snapshot {
	acts := make([]domain.ActivityRecord, len(snap.Activity))
	for i, a := range snap.Activity {
		a.RawPayload = nil
		acts[i] = a
	}
	snap.Activity = acts
	return snap
}

func (s *Service) invalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, snapshotCacheKey); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("snapshot cache invalidate failed")
	}
}

func (s *Service) publishRecorded(ctx context.Context, rec domain.ActivityRecord, res IngestResult, now time.Time) {
	payload := eventContract.ActivityRecordedPayload{
		ActivityID:   rec.ID,
		EventKey:     rec.EventKey,
		EventType:    rec.EventType,
		Quantity:     rec.Quantity,
		GoingDelta:   res.Delta.Going,
		PendingDelta: res.Delta.Pending,
	}
	if res.Aggregate != nil {
		going, pending := res.Aggregate.GoingCount, res.Aggregate.PendingCount
		payload.GoingCount = &going
		payload.PendingCount = &pending
	}

	body, err := json.Marshal(eventContract.DomainEventEnvelope[eventContract.ActivityRecordedPayload]{
		Version:    eventContract.EnvelopeVersion,
		Producer:   eventContract.Producer,
		TraceID:    appCtx.GetRequestID(ctx),
		MessageID:  rec.ID,
		OccurredAt: now,
		Payload:    payload,
	})
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("encode activity event failed")
		return
	}

	if err := s.pub.PublishEvent(ctx, eventContract.RoutingKeyActivityRecorded, rec.ID, body); err != nil {
		metrics.RecordPublishFailure()
		logger.WithCtx(ctx).Warn().Err(err).
			Str("activity_id", rec.ID).
			Msg("publish activity event failed")
	}
}
