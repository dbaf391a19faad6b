// Package metrics counts and times the operations of the client and budget
// managers on a private registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "oficina"

// ResultOK labels a successful operation
const ResultOK = "ok"

// Recorder holds the operation metrics. A nil *Recorder records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder returns a Recorder registered on its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "operations_total",
				Help:      "The number of manager operations by outcome.",
			}, []string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "operation_duration_seconds",
				Help:      "The time taken by manager operations.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			}, []string{"operation"},
		),
	}
	r.registry.MustRegister(r.operations, r.duration)
	return r
}

// Observe records one finished operation. result is ResultOK or an error kind.
func (r *Recorder) Observe(operation string, start time.Time, result string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, result).Inc()
	r.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format,
// for the node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
