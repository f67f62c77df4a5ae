package prometheus

import (
	"time"

	"github.com/openmotive/someip-echo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// rpcMetrics is the Prometheus implementation of metrics.RPCMetrics.
type rpcMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRPCMetrics creates a Prometheus-backed RPCMetrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewRPCMetrics() metrics.RPCMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &rpcMetrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someip_echo_rpc_requests_total",
				Help: "RPC dispatches by method and return code",
			},
			[]string{"method", "return_code"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "someip_echo_rpc_request_duration_milliseconds",
				Help: "RPC dispatch duration in milliseconds",
				Buckets: []float64{
					0.01,
					0.05,
					0.1,
					0.5,
					1,
					5,
					10,
				},
			},
			[]string{"method"},
		),
	}
}

func (m *rpcMetrics) RecordRequest(method string, returnCode string, duration time.Duration) {
	m.requests.WithLabelValues(method, returnCode).Inc()
	m.duration.WithLabelValues(method).Observe(float64(duration.Microseconds()) / 1000.0)
}
