package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/metrics"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/handlers"
	appmw "github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/middleware"
)

func New(
	wh *handlers.WebhooksHandler,
	sh *handlers.SocialHandler,
	z *handlers.HealthHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.AccessLog)

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/webhooks/{provider}", wh.Receive)
	r.Get("/social/echo", sh.Echo)

	return r
}
