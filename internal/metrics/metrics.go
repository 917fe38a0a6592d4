package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Webhook outcomes.
const (
	OutcomeRecorded     = "recorded"
	OutcomeDuplicate    = "duplicate"
	OutcomeDenied       = "denied"
	OutcomeUnconfigured = "unconfigured"
	OutcomeInvalid      = "invalid"
	OutcomeStorageError = "storage_error"
)

var (
	webhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_webhooks_total",
			Help: "Total number of ticketing webhooks received, by outcome",
		},
		[]string{"provider", "outcome"},
	)

	webhookDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "social_webhook_duration_seconds",
			Help:    "Webhook handling duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"provider"},
	)

	aggregateDeltaTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_aggregate_delta_total",
			Help: "Sum of absolute ticket deltas applied to aggregates",
		},
		[]string{"counter", "direction"},
	)

	snapshotReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_snapshot_reads_total",
			Help: "Total number of snapshot reads, by backend and result",
		},
		[]string{"backend", "result"},
	)

	publishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "social_publish_failures_total",
			Help: "Total number of domain events that failed to publish",
		},
	)
)

// RecordWebhook records one webhook outcome and its handling time
func RecordWebhook(provider, outcome string, duration time.Duration) {
	webhooksTotal.WithLabelValues(provider, outcome).Inc()
	webhookDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordDelta records the counter movement of one merge
func RecordDelta(going, pending int) {
	observeDelta("going", going)
	observeDelta("pending", pending)
}

func observeDelta(counter string, v int) {
	switch {
	case v > 0:
		aggregateDeltaTotal.WithLabelValues(counter, "up").Add(float64(v))
	case v < 0:
		aggregateDeltaTotal.WithLabelValues(counter, "down").Add(float64(-v))
	}
}

// RecordSnapshotRead records a snapshot read ("hit", "miss", "error")
func RecordSnapshotRead(backend, result string) {
	snapshotReadsTotal.WithLabelValues(backend, result).Inc()
}

func RecordPublishFailure() {
	publishFailuresTotal.Inc()
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
