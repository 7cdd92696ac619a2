// Package observability provides Prometheus metrics for the gateway.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"interviewgw/internal/core"
)

// Request outcomes recorded per dispatch.
const (
	OutcomeSuccess       = "success"
	OutcomeClientError   = "client_error"
	OutcomeConfigError   = "config_error"
	OutcomeUpstreamError = "upstream_error"
)

// Metrics holds the gateway's Prometheus collectors. Each instance
// carries its own registry so tests can create them freely.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	bytesStreamed prometheus.Counter
}

// New creates and registers the gateway metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interviewgw_chat_requests_total",
			Help: "Chat dispatches by provider and outcome.",
		}, []string{"provider", "outcome"}),
		bytesStreamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interviewgw_streamed_bytes_total",
			Help: "Total assistant reply bytes forwarded to clients.",
		}),
	}
	m.registry.MustRegister(m.requests, m.bytesStreamed)
	return m
}

// Handler returns the HTTP handler serving this instance's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest counts one chat dispatch. Nil-safe.
func (m *Metrics) RecordRequest(provider core.Provider, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(provider), outcome).Inc()
}

// AddStreamedBytes counts reply bytes forwarded to the caller. Nil-safe.
func (m *Metrics) AddStreamedBytes(n int) {
	if m == nil {
		return
	}
	m.bytesStreamed.Add(float64(n))
}
