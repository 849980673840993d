// Package metrics collects and exposes Prometheus metrics for the admin
// gateway: outbound API calls, login outcomes, and session issuance.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the gateway's request observer and counts the auth
// pipeline's terminal events.
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	loginOutcomes    *prometheus.CounterVec
	sessionsIssued   prometheus.Counter
	sessionsRevoked  prometheus.Counter
}

// NewCollector registers the gateway metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_gateway_upstream_requests_total",
			Help: "Outbound upstream API calls by method and result code.",
		}, []string{"method", "code", "success"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admin_gateway_upstream_latency_seconds",
			Help:    "Latency of outbound upstream API calls in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		loginOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_gateway_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admin_gateway_sessions_issued_total",
			Help: "Sessions issued after successful logins and renewals.",
		}),
		sessionsRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admin_gateway_sessions_revoked_total",
			Help: "Sessions explicitly revoked by sign out.",
		}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamLatency,
		c.loginOutcomes,
		c.sessionsIssued,
		c.sessionsRevoked,
	)

	return c
}

// ObserveRequest records one terminal gateway result. Endpoint is dropped as
// a label to keep cardinality bounded; codes are a small fixed set.
func (c *Collector) ObserveRequest(endpoint, method, code string, success bool, elapsed time.Duration) {
	successLabel := "false"
	if success {
		successLabel = "true"
	}
	c.upstreamRequests.WithLabelValues(method, code, successLabel).Inc()
	c.upstreamLatency.Observe(elapsed.Seconds())
}

// RecordLogin counts one login attempt by outcome.
func (c *Collector) RecordLogin(outcome string) {
	c.loginOutcomes.WithLabelValues(outcome).Inc()
}

// RecordSessionIssued counts one session issuance or renewal.
func (c *Collector) RecordSessionIssued() {
	c.sessionsIssued.Inc()
}

// RecordSessionRevoked counts one explicit sign out.
func (c *Collector) RecordSessionRevoked() {
	c.sessionsRevoked.Inc()
}

// Handler returns the Prometheus scrape handler for the registry.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
