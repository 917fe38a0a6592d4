package audit

import (
	"context"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/real-time-ressys/services/social-service/internal/pkg/context"
)

// Logger writes one audit line per webhook decision.
// Secrets and raw payloads are never logged.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// WebhookDenied logs a delivery rejected for a bad or missing secret.
func (l *Logger) WebhookDenied(ctx context.Context, provider, remoteAddr string) {
	l.log.Warn().
		Str("action", "webhook_denied").
		Str("provider", provider).
		Str("remote_addr", remoteAddr).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("webhook rejected: secret mismatch")
}

// WebhookUnconfigured logs a delivery that arrived before a secret was set.
func (l *Logger) WebhookUnconfigured(ctx context.Context, provider string) {
	l.log.Error().
		Str("action", "webhook_unconfigured").
		Str("provider", provider).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("webhook rejected: secret not configured")
}

func (l *Logger) WebhookInvalid(ctx context.Context, provider, reason string) {
	l.log.Info().
		Str("action", "webhook_invalid").
		Str("provider", provider).
		Str("reason", reason).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("webhook rejected: invalid payload")
}

func (l *Logger) WebhookDuplicate(ctx context.Context, provider, activityID string) {
	l.log.Info().
		Str("action", "webhook_duplicate").
		Str("provider", provider).
		Str("activity_id", activityID).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("webhook redelivery ignored")
}

// WebhookRecorded logs a fresh delivery and the counter movement it caused.
func (l *Logger) WebhookRecorded(ctx context.Context, provider, activityID, eventKey, eventType string, quantity, goingDelta, pendingDelta int) {
	l.log.Info().
		Str("action", "webhook_recorded").
		Str("provider", provider).
		Str("activity_id", activityID).
		Str("event_key", eventKey).
		Str("event_type", eventType).
		Int("quantity", quantity).
		Int("going_delta", goingDelta).
		Int("pending_delta", pendingDelta).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("webhook recorded")
}

// StorageFailed logs a write that was acknowledged to the provider but not persisted.
func (l *Logger) StorageFailed(ctx context.Context, provider string, err error) {
	l.log.Error().
		Err(err).
		Str("action", "webhook_storage_failed").
		Str("provider", provider).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("webhook acknowledged but not stored")
}
