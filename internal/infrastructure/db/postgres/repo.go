package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
)

// schemaSQL is embedded so the service can bootstrap its own tables.
//
//go:embed schema.sql
var schemaSQL string

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Backend() string { return "postgres" }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *Repo) ListAggregates(ctx context.Context) ([]domain.EventAggregate, error) {
	rows, err := r.db.QueryContext(ctx, listAggregatesSQL)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	defer rows.Close()

	out := []domain.EventAggregate{}
	for rows.Next() {
		var a domain.EventAggregate
		if err := rows.Scan(
			&a.EventKey, &a.EventID, &a.EventTitle, &a.City,
			&a.GoingCount, &a.PendingCount, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		a.UpdatedAt = a.UpdatedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	return out, nil
}

func (r *Repo) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.QueryContext(ctx, recentActivitySQL, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	out := []domain.ActivityRecord{}
	for rows.Next() {
		var (
			rec domain.ActivityRecord
			raw []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.At, &rec.EventType, &rec.EventKey, &rec.EventID,
			&rec.EventTitle, &rec.City, &rec.Status,
			&rec.Quantity, &rec.AttendeeAlias, &raw,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		rec.At = rec.At.UTC()
		rec.RawPayload = raw
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return out, nil
}
