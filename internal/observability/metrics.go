package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	portalRequestsTotal  *prometheus.CounterVec
	portalLatencySeconds *prometheus.HistogramVec
	portalErrorsTotal    *prometheus.CounterVec
	reconciliationRows   *prometheus.CounterVec
	exportsTotal         *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the portal API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		portalRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of portal API requests served.",
		}, []string{"method", "route", "status"})

		portalLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_latency_seconds",
			Help:    "Latency distribution for portal API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		portalErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Total number of error responses returned by portal endpoints.",
		}, []string{"method", "route", "status"})

		reconciliationRows = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_reconciliation_rows_total",
			Help: "Spreadsheet reconciliation rows by kind and outcome.",
		}, []string{"kind", "outcome"})

		exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_exports_total",
			Help: "Generated downloads by format.",
		}, []string{"format"})

		prometheus.MustRegister(portalRequestsTotal, portalLatencySeconds, portalErrorsTotal, reconciliationRows, exportsTotal)
	})
}

// PortalRequests exposes the counter for portal requests.
func PortalRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return portalRequestsTotal
}

// PortalLatency exposes the latency histogram for portal requests.
func PortalLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return portalLatencySeconds
}

// PortalErrors exposes the counter for portal error responses.
func PortalErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return portalErrorsTotal
}

// ReconciliationRows exposes the counter for bulk reconciliation outcomes.
func ReconciliationRows() *prometheus.CounterVec {
	RegisterMetrics()
	return reconciliationRows
}

// Exports exposes the counter for generated downloads.
func Exports() *prometheus.CounterVec {
	RegisterMetrics()
	return exportsTotal
}
