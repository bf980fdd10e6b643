package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ChartLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "astrochart",
			Subsystem: "charts",
			Name:      "latency_seconds",
			Help:      "Latency of chart endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ChartErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "astrochart",
			Subsystem: "charts",
			Name:      "errors_total",
			Help:      "Errors by chart endpoint",
		},
		[]string{"endpoint"},
	)

	SynastryAspects = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "astrochart",
			Subsystem: "charts",
			Name:      "synastry_aspects",
			Help:      "Synastry aspect count per comparison",
			Buckets:   []float64{5, 10, 15, 20, 30, 40, 60, 80, 100},
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ChartLatency, ChartErrors, SynastryAspects)
	})
}
