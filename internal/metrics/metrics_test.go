package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordWebhook(t *testing.T) {
	before := testutil.ToFloat64(webhooksTotal.WithLabelValues("humanitix", OutcomeDuplicate))
	RecordWebhook("humanitix", OutcomeDuplicate, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(webhooksTotal.WithLabelValues("humanitix", OutcomeDuplicate)))
}

func TestRecordDelta(t *testing.T) {
	goingUp := testutil.ToFloat64(aggregateDeltaTotal.WithLabelValues("going", "up"))
	pendingDown := testutil.ToFloat64(aggregateDeltaTotal.WithLabelValues("pending", "down"))

	RecordDelta(4, -4)

	assert.Equal(t, goingUp+4, testutil.ToFloat64(aggregateDeltaTotal.WithLabelValues("going", "up")))
	assert.Equal(t, pendingDown+4, testutil.ToFloat64(aggregateDeltaTotal.WithLabelValues("pending", "down")))
}

func TestHandler_ExposesSocialMetrics(t *testing.T) {
	RecordSnapshotRead("memory", "miss")
	RecordPublishFailure()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(body, "social_snapshot_reads_total"))
	assert.True(t, strings.Contains(body, "social_publish_failures_total"))
}
