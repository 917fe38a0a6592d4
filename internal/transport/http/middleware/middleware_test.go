package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	appCtx "github.com/baechuer/real-time-ressys/services/social-service/internal/pkg/context"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	t.Run("reuses_caller_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXRequestID, "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(HeaderXRequestID))
	})

	t.Run("generates_when_missing_or_unsafe", func(t *testing.T) {
		for _, in := range []string{"", "has space", "line\nbreak", strings.Repeat("x", 200)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if in != "" {
				req.Header[HeaderXRequestID] = []string{in}
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.NotEqual(t, in, seen)
			assert.Len(t, seen, 36)
			assert.Equal(t, seen, rr.Header().Get(HeaderXRequestID))
		}
	})
}

func TestAccessLog_PassesThroughStatus(t *testing.T) {
	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pot", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "short and stout", rr.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}
