package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/application/social"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tx social.StoreTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		// Safety: in case fn panics, rollback to avoid leaked tx.
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRepo{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

func (t *txRepo) InsertActivity(ctx context.Context, rec domain.ActivityRecord) (bool, error) {
	raw := string(rec.RawPayload)
	if raw == "" {
		raw = "{}"
	}
	res, err := t.tx.ExecContext(ctx, insertActivitySQL,
		rec.ID, rec.At, rec.EventType, rec.EventKey, rec.EventID,
		rec.EventTitle, rec.City, rec.Status,
		rec.Quantity, rec.AttendeeAlias, raw,
	)
	if err != nil {
		return false, fmt.Errorf("insert activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert activity rows affected: %w", err)
	}
	return n == 1, nil
}

func (t *txRepo) MergeAggregate(ctx context.Context, key string, d domain.Delta, meta domain.EventMeta, now time.Time) (domain.EventAggregate, error) {
	var a domain.EventAggregate
	err := t.tx.QueryRowContext(ctx, mergeAggregateSQL,
		key, meta.EventID, meta.EventTitle, meta.City,
		int64(d.Going), int64(d.Pending), now.UTC(),
	).Scan(
		&a.EventKey, &a.EventID, &a.EventTitle, &a.City,
		&a.GoingCount, &a.PendingCount, &a.UpdatedAt,
	)
	if err != nil {
		return domain.EventAggregate{}, fmt.Errorf("merge aggregate %q: %w", key, err)
	}
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

var _ social.Store = (*Repo)(nil)
