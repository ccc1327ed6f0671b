// Package metrics exposes Prometheus instrumentation for the mixer service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the audio mixer service.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	MixDuration      prometheus.Histogram
	ActiveMixes      prometheus.Gauge
	DownloadFailures prometheus.Counter
}

// New creates and registers all metrics against reg. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audio_mixer_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status code",
		}, []string{"endpoint", "status"}),
		MixDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audio_mixer_mix_duration_seconds",
			Help:    "End-to-end duration of mix pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		ActiveMixes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audio_mixer_active_mixes",
			Help: "Number of mix pipelines currently running",
		}),
		DownloadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "audio_mixer_download_failures_total",
			Help: "Total number of failed source downloads",
		}),
	}
}
