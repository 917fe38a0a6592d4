package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/application/social"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/metrics"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/security"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/response"
)

const DefaultMaxBodyBytes int64 = 1 << 20

type WebhooksHandler struct {
	svc      *social.Service
	verifier *security.SharedSecretVerifier
	audit    *audit.Logger

	provider     string
	secretHeader string
	maxBytes     int64
}

// NewWebhooksHandler serves deliveries for one provider. The shared secret
// is read from the "<Provider>-Secret" header.
func NewWebhooksHandler(svc *social.Service, provider string, verifier *security.SharedSecretVerifier, al *audit.Logger, maxBytes int64) *WebhooksHandler {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return &WebhooksHandler{
		svc:          svc,
		verifier:     verifier,
		audit:        al,
		provider:     provider,
		secretHeader: http.CanonicalHeaderKey(provider + "-secret"),
		maxBytes:     maxBytes,
	}
}

func (h *WebhooksHandler) SecretHeader() string { return h.secretHeader }

// Receive runs one delivery: authenticate, validate, dedup, classify, merge.
func (h *WebhooksHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	if !strings.EqualFold(chi.URLParam(r, "provider"), h.provider) {
		response.Err(w, r, domain.ErrNotFound("unknown webhook provider"))
		return
	}

	if err := h.verifier.Verify(r.Header.Get(h.secretHeader)); err != nil {
		if errors.Is(err, security.ErrNotConfigured) {
			h.audit.WebhookUnconfigured(ctx, h.provider)
			metrics.RecordWebhook(h.provider, metrics.OutcomeUnconfigured, time.Since(start))
			response.Err(w, r, domain.ErrNotConfigured("webhook secret not configured"))
			return
		}
		h.audit.WebhookDenied(ctx, h.provider, r.RemoteAddr)
		metrics.RecordWebhook(h.provider, metrics.OutcomeDenied, time.Since(start))
		response.Err(w, r, domain.ErrUnauthorized("invalid webhook secret"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = domain.ErrValidationMeta("payload too large", map[string]string{
				"max_bytes": strconv.FormatInt(h.maxBytes, 10),
			})
		} else {
			err = domain.ErrValidation("unreadable request body")
		}
		h.reject(w, r, err, start)
		return
	}

	res, err := h.svc.Ingest(ctx, body)
	switch {
	case err == nil:
	case domain.HasCode(err, domain.CodeStorage):
		// acknowledged so the sender does not retry into a partial state
		h.audit.StorageFailed(ctx, h.provider, err)
		metrics.RecordWebhook(h.provider, metrics.OutcomeStorageError, time.Since(start))
		response.JSON(w, http.StatusOK, dto.WebhookResp{OK: true})
		return
	default:
		h.reject(w, r, err, start)
		return
	}

	if res.Duplicate {
		h.audit.WebhookDuplicate(ctx, h.provider, res.ActivityID)
		metrics.RecordWebhook(h.provider, metrics.OutcomeDuplicate, time.Since(start))
		response.JSON(w, http.StatusOK, dto.WebhookResp{OK: true, Duplicate: true})
		return
	}

	h.audit.WebhookRecorded(ctx, h.provider, res.ActivityID, res.EventKey, res.EventType, res.Quantity, res.Delta.Going, res.Delta.Pending)
	metrics.RecordWebhook(h.provider, metrics.OutcomeRecorded, time.Since(start))
	response.JSON(w, http.StatusOK, dto.WebhookResp{OK: true})
}

func (h *WebhooksHandler) reject(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	reason := "invalid payload"
	if ae, ok := domain.AsAppError(err); ok {
		reason = ae.Message
	}
	h.audit.WebhookInvalid(r.Context(), h.provider, reason)
	metrics.RecordWebhook(h.provider, metrics.OutcomeInvalid, time.Since(start))
	response.Err(w, r, err)
}
