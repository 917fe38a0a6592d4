package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/response"
)

const readyTimeout = 2 * time.Second

// Pinger is anything readiness depends on.
type Pinger interface {
	Backend() string
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler { return &HealthHandler{store: store} }

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{"ok": true, "status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	backend := h.store.Backend()
	if err := h.store.Ping(ctx); err != nil {
		logger.WithCtx(r.Context()).Warn().Err(err).Str("backend", backend).Msg("readiness check failed")
		response.JSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "status": "unavailable", "backend": backend})
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"ok": true, "status": "ready", "backend": backend})
}
