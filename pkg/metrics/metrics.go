// Package metrics defines the observability interfaces of the echo service
// and manages the process-wide Prometheus registry.
//
// Implementations live in pkg/metrics/prometheus. Every interface is
// optional: passing nil disables collection with zero overhead.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the process-wide metrics registry with the standard
// Go and process collectors. Calling it again is a no-op.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()

	if registry != nil {
		return
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the process-wide registry, or nil if metrics are
// disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// LifecycleMetrics provides observability for lifecycle transitions and
// the bus operations they drive.
type LifecycleMetrics interface {
	// RecordRegisterAttempt records one register or unregister attempt
	// against the bus. op is "register" or "unregister".
	RecordRegisterAttempt(op string, success bool)

	// RecordAvailabilityPoll records one availability probe attempt.
	RecordAvailabilityPoll(matched bool)

	// RecordTransition records a completed lifecycle transition with its
	// duration. op is "launch" or "terminate".
	RecordTransition(op string, duration time.Duration)

	// SetRunning records the current lifecycle state.
	SetRunning(running bool)
}

// RPCMetrics provides observability for echo RPC dispatch.
type RPCMetrics interface {
	// RecordRequest records a completed RPC dispatch with the operation
	// name, outcome return code, and processing duration.
	RecordRequest(method string, returnCode string, duration time.Duration)
}
