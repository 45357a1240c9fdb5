// Package metrics exposes Prometheus metrics for credential validation,
// registry mutations, and HTTP traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// ValidationsTotal counts platform credential checks by outcome.
	ValidationsTotal *prometheus.CounterVec
	// RegistryMutationsTotal counts credential registry mutations.
	RegistryMutationsTotal *prometheus.CounterVec
	// CredentialsStored tracks the number of records per platform.
	CredentialsStored *prometheus.GaugeVec
	// HTTPRequestsTotal counts HTTP requests by route pattern.
	HTTPRequestsTotal *prometheus.CounterVec
	// RequestLatency tracks HTTP request latency by route pattern.
	RequestLatency *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all metrics under namespace on a private
// registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "credential_validations_total",
				Help:      "Total number of platform credential validations",
			},
			[]string{"platform", "outcome"},
		),
		RegistryMutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_mutations_total",
				Help:      "Total number of credential registry mutations",
			},
			[]string{"operation", "status"},
		),
		CredentialsStored: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "credentials_stored",
				Help:      "Number of stored credential records",
			},
			[]string{"platform"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_latency_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
	}

	registry.MustRegister(
		m.ValidationsTotal,
		m.RegistryMutationsTotal,
		m.CredentialsStored,
		m.HTTPRequestsTotal,
		m.RequestLatency,
	)

	return m
}

// Handler returns a Prometheus handler for these metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordValidation records one credential validation outcome.
func (m *Metrics) RecordValidation(platform string, valid bool) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if !valid {
		outcome = "rejected"
	}
	m.ValidationsTotal.WithLabelValues(platform, outcome).Inc()
}

// RecordMutation records a registry mutation ("add", "update", "remove").
func (m *Metrics) RecordMutation(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RegistryMutationsTotal.WithLabelValues(operation, status).Inc()
}

// SetCredentialsStored sets the stored record count for a platform.
func (m *Metrics) SetCredentialsStored(platform string, count int) {
	if m == nil {
		return
	}
	m.CredentialsStored.WithLabelValues(platform).Set(float64(count))
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(endpoint, method, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	m.RequestLatency.WithLabelValues(endpoint, method).Observe(durationSeconds)
}
