package response

import (
	"encoding/json"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/logger"
	appCtx "github.com/baechuer/real-time-ressys/services/social-service/internal/pkg/context"
)

type ErrorDetail struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorBody struct {
	OK    bool        `json:"ok"`
	Error ErrorDetail `json:"error"`
}

// JSON writes v with the given status. Bodies carry their own "ok" field.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Fail(w http.ResponseWriter, status int, code, message string, meta map[string]string, requestID string) {
	JSON(w, status, ErrorBody{
		OK: false,
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Meta:      meta,
			RequestID: requestID,
		},
	})
}

// Err maps err onto an HTTP error response. Causes of storage and unknown
// errors are logged, never returned to the caller.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	requestID := appCtx.GetRequestID(r.Context())

	ae, ok := domain.AsAppError(err)
	if !ok {
		logger.WithCtx(r.Context()).Error().Err(err).Msg("unhandled error")
		Fail(w, http.StatusInternalServerError, string(domain.CodeInternal), "internal error", nil, requestID)
		return
	}

	status := statusFromCode(ae.Code)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().Err(err).Str("code", string(ae.Code)).Msg("request failed")
	}
	Fail(w, status, string(ae.Code), ae.Message, ae.Meta, requestID)
}

func statusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
