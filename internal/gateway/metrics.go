package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the gateways
type Metrics struct {
	// Per-gateway operation counters, labeled by tier actually used
	Operations *prometheus.CounterVec

	// Remote tier probe failures
	ProbeFailures *prometheus.CounterVec

	// Generation request latency
	GenerateLatency prometheus.Histogram
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contentos_gateway_operations_total",
			Help: "Total gateway operations by service, operation and serving tier",
		}, []string{"service", "operation", "tier"}),

		ProbeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contentos_gateway_probe_failures_total",
			Help: "Total failed remote tier availability probes by service",
		}, []string{"service"}),

		GenerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentos_generate_duration_seconds",
			Help:    "AI generation request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordOperation records a served gateway operation and its tier.
func (m *Metrics) RecordOperation(service, operation string, tier Tier) {
	m.Operations.WithLabelValues(service, operation, string(tier)).Inc()
}

// RecordProbeFailure records a failed remote availability probe.
func (m *Metrics) RecordProbeFailure(service string) {
	m.ProbeFailures.WithLabelValues(service).Inc()
}

// RecordGenerateLatency records AI generation latency.
func (m *Metrics) RecordGenerateLatency(seconds float64) {
	m.GenerateLatency.Observe(seconds)
}

// recordOperation is a nil-safe helper for gateways constructed without
// metrics (tests).
func recordOperation(service, operation string, tier Tier) {
	if globalMetrics != nil {
		globalMetrics.RecordOperation(service, operation, tier)
	}
}

func recordProbeFailure(service string) {
	if globalMetrics != nil {
		globalMetrics.RecordProbeFailure(service)
	}
}

func recordGenerateLatency(seconds float64) {
	if globalMetrics != nil {
		globalMetrics.RecordGenerateLatency(seconds)
	}
}
