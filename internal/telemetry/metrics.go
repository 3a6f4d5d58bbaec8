// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package telemetry implements the Telemetry Surface (spec.md §4.7,
// component C7): counters and histograms for reconciliations, vendor calls
// and cluster calls, registered against controller-runtime's shared
// Prometheus registry, which the operator's own /metrics listener serves
// (the manager's built-in metrics server is disabled).
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	reconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clever_operator",
			Name:      "reconciliations_total",
			Help:      "Total number of reconciliations, by family and outcome.",
		},
		[]string{"family", "outcome"},
	)

	reconciliationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clever_operator",
			Name:      "reconciliation_duration_seconds",
			Help:      "Duration of a single reconcile, by family.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"family"},
	)

	vendorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clever_cloud",
			Name:      "client_request_total",
			Help:      "Total number of vendor API calls, by endpoint, method and status class.",
		},
		[]string{"endpoint", "method", "status"},
	)

	vendorRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clever_cloud",
			Name:      "client_request_duration_seconds",
			Help:      "Duration of a vendor API call, by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	clusterCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clever_operator",
			Name:      "cluster_calls_total",
			Help:      "Total number of cluster API calls, by action, namespace and outcome.",
		},
		[]string{"action", "namespace", "outcome"},
	)

	clusterCallDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clever_operator",
			Name:      "cluster_call_duration_seconds",
			Help:      "Duration of a cluster API call, by action.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		reconciliationsTotal,
		reconciliationDurationSeconds,
		vendorRequestsTotal,
		vendorRequestDurationSeconds,
		clusterCallsTotal,
		clusterCallDurationSeconds,
	)
}

// Outcome labels a completed reconciliation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Metrics is the per-process handle every family's reconciler records
// against. Safe for concurrent use; holds no per-object state.
type Metrics struct{}

// New builds a Metrics handle. There is exactly one per process; every
// family shares it (spec.md §9, "No global mutable state": the registries
// themselves are the only process-wide state, and are write-only).
func New() *Metrics {
	return &Metrics{}
}

// ObserveReconcile records one completed reconciliation.
func (m *Metrics) ObserveReconcile(family string, outcome Outcome, d time.Duration) {
	reconciliationsTotal.WithLabelValues(family, string(outcome)).Inc()
	reconciliationDurationSeconds.WithLabelValues(family).Observe(d.Seconds())
}

// ObserveVendorCall records one vendor API call. status is the HTTP status
// class (e.g. "2xx", "429", "5xx") rather than the exact code, to keep
// cardinality bounded.
func (m *Metrics) ObserveVendorCall(endpoint, method, status string, d time.Duration) {
	vendorRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	vendorRequestDurationSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveClusterCall records one cluster API call.
func (m *Metrics) ObserveClusterCall(action, namespace, outcome string, d time.Duration) {
	clusterCallsTotal.WithLabelValues(action, namespace, outcome).Inc()
	clusterCallDurationSeconds.WithLabelValues(action).Observe(d.Seconds())
}

// Clear resets every metric this process owns. Used by tests to avoid
// cross-test contamination of the shared Prometheus collectors.
func Clear() {
	reconciliationsTotal.Reset()
	reconciliationDurationSeconds.Reset()
	vendorRequestsTotal.Reset()
	vendorRequestDurationSeconds.Reset()
	clusterCallsTotal.Reset()
	clusterCallDurationSeconds.Reset()
}
