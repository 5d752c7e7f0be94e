package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collection Prometheus metrics.
var (
	CollectionOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsonsurf",
			Name:      "collection_operations_total",
			Help:      "Total number of collection operations",
		},
		[]string{"collection", "op", "status"},
	)

	CollectionOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jsonsurf",
			Name:      "collection_operation_duration_seconds",
			Help:      "Collection operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"collection", "op"},
	)

	DocumentsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsonsurf",
			Name:      "documents_written_total",
			Help:      "Documents inserted or deleted",
		},
		[]string{"collection", "op"},
	)

	CollectionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jsonsurf",
			Name:      "collections_open",
			Help:      "Collections by open state",
		},
		[]string{"state"}, // "ok" / "failed"
	)
)

var storageMetricsRegistered bool

// RegisterStorageMetrics registers Prometheus collection metrics. Must be called once from main.
func RegisterStorageMetrics() {
	if storageMetricsRegistered {
		return
	}
	prometheus.MustRegister(CollectionOpsTotal)
	prometheus.MustRegister(CollectionOpDuration)
	prometheus.MustRegister(DocumentsWrittenTotal)
	prometheus.MustRegister(CollectionsOpen)
	storageMetricsRegistered = true
}

// ObserveOp records one collection operation started at start.
func ObserveOp(collection, op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	CollectionOpsTotal.WithLabelValues(collection, op, status).Inc()
	CollectionOpDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}
