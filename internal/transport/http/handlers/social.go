package handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/application/social"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/response"
)

type SocialHandler struct {
	svc *social.Service
}

func NewSocialHandler(svc *social.Service) *SocialHandler {
	return &SocialHandler{svc: svc}
}

// Echo serves the current snapshot from whichever backend is configured.
func (h *SocialHandler) Echo(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.SnapshotFromDomain(snap))
}
