// Package prometheus provides Prometheus-backed implementations of the
// metrics interfaces in pkg/metrics.
package prometheus

import (
	"time"

	"github.com/openmotive/someip-echo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// lifecycleMetrics is the Prometheus implementation of
// metrics.LifecycleMetrics.
type lifecycleMetrics struct {
	registerAttempts  *prometheus.CounterVec
	availabilityPolls *prometheus.CounterVec
	transitions       *prometheus.HistogramVec
	running           prometheus.Gauge
}

// NewLifecycleMetrics creates a Prometheus-backed LifecycleMetrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called), which
// callers pass through for zero overhead.
func NewLifecycleMetrics() metrics.LifecycleMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &lifecycleMetrics{
		registerAttempts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someip_echo_register_attempts_total",
				Help: "Bus register/unregister attempts by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		availabilityPolls: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someip_echo_availability_polls_total",
				Help: "Availability probe attempts by outcome",
			},
			[]string{"outcome"},
		),
		transitions: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "someip_echo_lifecycle_transition_duration_seconds",
				Help: "Duration of completed lifecycle transitions",
				Buckets: []float64{
					0.01, // no retries needed
					0.05,
					0.1, // one retry interval
					0.5,
					1,
					5,
					30, // runtime badly lagging
				},
			},
			[]string{"op"},
		),
		running: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "someip_echo_running",
				Help: "1 while the service is registered and available, 0 otherwise",
			},
		),
	}
}

func (m *lifecycleMetrics) RecordRegisterAttempt(op string, success bool) {
	m.registerAttempts.WithLabelValues(op, outcome(success)).Inc()
}

func (m *lifecycleMetrics) RecordAvailabilityPoll(matched bool) {
	m.availabilityPolls.WithLabelValues(outcome(matched)).Inc()
}

func (m *lifecycleMetrics) RecordTransition(op string, duration time.Duration) {
	m.transitions.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *lifecycleMetrics) SetRunning(running bool) {
	if running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
