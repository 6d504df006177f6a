package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of backend requests issued by the client.",
		},
		[]string{"operation", "result"},
	)

	GatewayRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of backend requests issued by the client.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// MustRegister registers the gateway instruments on the default registry.
// Call once at startup.
func MustRegister() {
	prometheus.MustRegister(GatewayRequestsTotal, GatewayRequestDurationSeconds)
}
