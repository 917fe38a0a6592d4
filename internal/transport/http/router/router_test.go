package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/social-service/internal/application/social"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/security"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/social-service/internal/transport/http/handlers"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC) }

const secret = "s3cret"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New(0)
	svc := social.New(store, stubClock{}, nil, nil, 0, 0)

	h := New(
		handlers.NewWebhooksHandler(svc, "humanitix", security.NewSharedSecretVerifier(secret), audit.New(zerolog.Nop()), 0),
		handlers.NewSocialHandler(svc),
		handlers.NewHealthHandler(store),
	)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func deliver(t *testing.T, srv *httptest.Server, body string) map[string]any {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/webhooks/humanitix", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Humanitix-Secret", secret)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func echo(t *testing.T, srv *httptest.Server) dto.SnapshotResp {
	t.Helper()
	resp, err := http.Get(srv.URL + "/social/echo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SnapshotResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func eventByKey(s dto.SnapshotResp, key string) (dto.EventResp, bool) {
	for _, e := range s.Events {
		if e.EventKey == key {
			return e, true
		}
	}
	return dto.EventResp{}, false
}

func TestRouter_LaunchNightScenario(t *testing.T) {
	srv := newServer(t)

	order := `{"type":"new order","eventId":"e1","eventTitle":"Launch Night","quantity":2}`

	out := deliver(t, srv, order)
	assert.Equal(t, true, out["ok"])
	assert.Nil(t, out["duplicate"])

	e1, ok := eventByKey(echo(t, srv), "e1")
	require.True(t, ok)
	assert.Equal(t, 2, e1.GoingCount)
	assert.Equal(t, 0, e1.PendingCount)
	require.NotNil(t, e1.EventTitle)
	assert.Equal(t, "Launch Night", *e1.EventTitle)

	out = deliver(t, srv, order)
	assert.Equal(t, true, out["duplicate"])
	e1, _ = eventByKey(echo(t, srv), "e1")
	assert.Equal(t, 2, e1.GoingCount)

	deliver(t, srv, `{"type":"order updated","status":"refunded","eventId":"e1","eventTitle":"Renamed","quantity":1}`)

	snap := echo(t, srv)
	e1, _ = eventByKey(snap, "e1")
	assert.Equal(t, 1, e1.GoingCount)
	assert.Equal(t, "Launch Night", *e1.EventTitle, "title is fill-once")

	assert.Equal(t, 1, snap.Summary.TotalGoing)
	assert.Equal(t, 1, snap.Summary.LiveEvents)
	assert.Len(t, snap.Activity, 2)
}

func TestRouter_Routing(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/social/echo", http.StatusOK},
		{http.MethodPost, "/webhooks/humanitix", http.StatusUnauthorized},
		{http.MethodPost, "/webhooks/other", http.StatusNotFound},
		{http.MethodGet, "/webhooks/humanitix", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(`{}`))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		})
	}
}
