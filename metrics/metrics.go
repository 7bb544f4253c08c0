package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "restaurant_hub"

const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
)

// Metrics holds the collectors for admission, session, order and live-feed activity. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rateLimitDecisions *prometheus.CounterVec
	sessionResolutions *prometheus.CounterVec
	orderTransitions   *prometheus.CounterVec
	eventsPublished    *prometheus.CounterVec
	eventsDropped      prometheus.Counter
	subscribers        prometheus.Gauge
}

// New registers every collector on a fresh registry, alongside the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		rateLimitDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_decisions_total",
			Help:      "Admission decisions by limiter class and outcome.",
		}, []string{"class", "outcome"}),
		sessionResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resolutions_total",
			Help:      "Session resolution results by carrier source or failure kind.",
		}, []string{"result"}),
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Persisted order status changes by target status.",
		}, []string{"status"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kds_events_published_total",
			Help:      "Live-feed events published by event name.",
		}, []string{"event"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kds_events_dropped_total",
			Help:      "Per-subscriber deliveries dropped because the send buffer was full.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kds_subscribers",
			Help:      "Connections currently joined to a restaurant channel.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rateLimitDecisions,
		m.sessionResolutions,
		m.orderTransitions,
		m.eventsPublished,
		m.eventsDropped,
		m.subscribers,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RateLimitDecision(class string, allowed bool) {
	if m == nil {
		return
	}
	outcome := OutcomeAllowed
	if !allowed {
		outcome = OutcomeDenied
	}
	m.rateLimitDecisions.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) SessionResolved(result string) {
	if m == nil {
		return
	}
	m.sessionResolutions.WithLabelValues(result).Inc()
}

func (m *Metrics) OrderTransition(status string) {
	if m == nil {
		return
	}
	m.orderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) EventPublished(event string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(event).Inc()
}

func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}

func (m *Metrics) SubscriberJoined() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberLeft() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}
