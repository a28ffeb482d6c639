package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Values of the result label on urlmd_conversions_total.
const (
	resultOK           = "ok"
	resultInvalidURL   = "invalid_url"
	resultFetchError   = "fetch_error"
	resultConvertError = "convert_error"
	resultTimeout      = "timeout"
)

type metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// newMetrics builds a registry per server so tests and multiple servers
// do not collide on the default registry.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urlmd_conversions_total",
			Help: "Conversion requests by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "urlmd_conversion_duration_seconds",
			Help:    "Time spent converting fetched HTML to Markdown.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.conversions,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) record(result string) {
	m.conversions.WithLabelValues(result).Inc()
}
