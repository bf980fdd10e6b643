package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	chartsBuilt   *prometheus.CounterVec
	comparesTotal prometheus.Counter
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		chartsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_charts_built_total",
				Help: "Total number of natal charts built",
			},
			[]string{"backend"},
		),
		comparesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "astrochart_compares_total",
				Help: "Total number of chart comparisons",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astrochart_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordChartBuilt records a chart built by an ephemeris backend.
func (r *Recorder) RecordChartBuilt(backend string) {
	r.chartsBuilt.WithLabelValues(backend).Inc()
}

// RecordCompare records a completed comparison.
func (r *Recorder) RecordCompare() {
	r.comparesTotal.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
