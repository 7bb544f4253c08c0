package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitDecisionCounts(t *testing.T) {
	m := New()
	m.RateLimitDecision("auth", true)
	m.RateLimitDecision("auth", true)
	m.RateLimitDecision("auth", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rateLimitDecisions.WithLabelValues("auth", OutcomeAllowed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimitDecisions.WithLabelValues("auth", OutcomeDenied)))
}

func TestSubscriberGauge(t *testing.T) {
	m := New()
	m.SubscriberJoined()
	m.SubscriberJoined()
	m.SubscriberLeft()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscribers))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RateLimitDecision("api", true)
		m.SessionResolved("direct")
		m.OrderTransition("PAID")
		m.EventPublished("new_order")
		m.EventDropped()
		m.SubscriberJoined()
		m.SubscriberLeft()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.EventPublished("new_order")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `restaurant_hub_kds_events_published_total{event="new_order"} 1`))
}
