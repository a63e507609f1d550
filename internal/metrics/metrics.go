// Package metrics provides Prometheus metrics for reaction computations and case file operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdsreac_computations_total",
			Help: "Total number of reaction block computations",
		},
		[]string{"status"},
	)

	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdsreac_imports_total",
			Help: "Total number of case imports",
		},
		[]string{"status"},
	)

	ImportWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdsreac_import_warnings_total",
			Help: "Recoverable problems found while importing reaction records",
		},
		[]string{"code"},
	)

	SavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdsreac_saves_total",
			Help: "Total number of reaction blocks spliced into case files",
		},
		[]string{"placement"},
	)

	CasesIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fdsreac_cases_indexed",
			Help: "Number of case files in the catalogue after the last sync",
		},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fdsreac_operation_duration_seconds",
			Help:    "Duration of compute, import and save operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Status labels.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusFatal   = "fatal"
	StatusError   = "error"
)

// ObserveSince records the time elapsed since start for operation.
func ObserveSince(operation string, start time.Time) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
