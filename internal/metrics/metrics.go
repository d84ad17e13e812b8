package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Operations     *prometheus.CounterVec
	APIErrors      *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
	Concerns       *prometheus.CounterVec
	ActiveBatches  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addrcheck_operations_total",
			Help: "Total number of geocoder operations by outcome.",
		}, []string{"operation", "status"}),
		APIErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addrcheck_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}, []string{"provider"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "addrcheck_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		Concerns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addrcheck_concerns_total",
			Help: "Total number of address consistency concerns raised.",
		}, []string{"kind"}),
		ActiveBatches: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "addrcheck_active_batches",
			Help: "Current number of batch detail runs in progress.",
		}),
	}
}
