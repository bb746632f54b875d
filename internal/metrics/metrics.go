// Package metrics exposes Prometheus counters for upstream fetches and for
// responses the dashboard state discards as stale.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeParseError   = "parse_error"
)

// Metrics is safe for concurrent use. A nil *Metrics is a no-op.
type Metrics struct {
	fetches *prometheus.CounterVec
	stale   *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covidtracker",
			Name:      "fetch_total",
			Help:      "Upstream API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covidtracker",
			Name:      "stale_responses_total",
			Help:      "Responses dropped because a newer request for the same field was issued.",
		}, []string{"field"}),
	}
	if reg != nil {
		reg.MustRegister(m.fetches, m.stale)
	}
	return m
}

func (m *Metrics) ObserveFetch(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveStale(field string) {
	if m == nil {
		return
	}
	m.stale.WithLabelValues(field).Inc()
}
