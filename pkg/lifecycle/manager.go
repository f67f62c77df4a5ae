// Package lifecycle drives the echo service through its launch and
// terminate transitions against a bus runtime.
//
// A Manager serializes transitions with a single mutex held for the whole
// transition, including every retry and availability poll inside it.
// Concurrent callers therefore observe either the state before or the
// state after a transition, never a half-finished one.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openmotive/someip-echo/internal/logger"
	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/echo"
	"github.com/openmotive/someip-echo/pkg/metrics"
	"github.com/openmotive/someip-echo/pkg/retry"
)

// State is the externally observable lifecycle state. There are no
// intermediate states: a manager is Stopped until a launch fully
// completes, and Running until a terminate fully completes.
type State int32

const (
	// Stopped means the service is not offered on the bus.
	Stopped State = iota

	// Running means the service is registered and was observed available.
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrClosed is returned by Launch after the manager has been closed.
var ErrClosed = errors.New("lifecycle: manager is closed")

// Config holds the manager's identity and retry settings.
type Config struct {
	// Identity names the service on the bus. Zero value means
	// bus.DefaultIdentity.
	Identity bus.Identity

	// Retry governs registration attempts and availability polling.
	// The zero value retries every 100ms without bound.
	Retry retry.Policy
}

// Manager owns the service's presence on the bus.
type Manager struct {
	runtime  bus.Runtime
	contract echo.Contract
	config   Config
	metrics  metrics.LifecycleMetrics

	// mu is held for the full duration of a transition.
	mu         sync.Mutex
	configured bool
	closed     bool

	// state is updated under mu but read without it, so observers are not
	// blocked by an in-flight transition.
	state atomic.Int32
}

// NewManager builds a manager. lm may be nil.
func NewManager(runtime bus.Runtime, contract echo.Contract, cfg Config, lm metrics.LifecycleMetrics) *Manager {
	if (cfg.Identity == bus.Identity{}) {
		cfg.Identity = bus.DefaultIdentity()
	}
	return &Manager{
		runtime:  runtime,
		contract: contract,
		config:   cfg,
		metrics:  lm,
	}
}

// State reports the current lifecycle state without blocking on an
// in-flight transition.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Running reports whether the manager is in the Running state.
func (m *Manager) Running() bool {
	return m.State() == Running
}

// Launch registers the service and blocks until the bus reports it
// available. Registration failures are retried at the configured
// interval; only ctx cancellation or an exhausted attempt bound makes a
// launch give up. Launching a running manager is a no-op.
func (m *Manager) Launch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.State() == Running {
		logger.DebugCtx(ctx, "Launch requested while running, nothing to do")
		return nil
	}

	done := logger.Scope("Launch",
		logger.KeyDomain, m.config.Identity.Domain,
		logger.KeyInstance, m.config.Identity.Instance,
	)
	defer done()
	start := time.Now()

	if err := m.configure(ctx); err != nil {
		return err
	}

	handle := bus.NewHandle(m.config.Identity, m.contract)
	attempt := 0
	err := m.config.Retry.Poll(ctx, func() bool {
		attempt++
		regErr := m.runtime.Register(ctx, handle)
		if m.metrics != nil {
			m.metrics.RecordRegisterAttempt("register", regErr == nil)
		}
		if regErr != nil {
			logger.WarnCtx(ctx, "Service registration failed, retrying",
				logger.KeyAttempt, attempt,
				logger.KeyError, regErr,
			)
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("registering service: %w", err)
	}

	if err := m.awaitAvailability(ctx, true); err != nil {
		// Roll back so Stopped stays truthful. Best effort: the service
		// may come up on the bus between the poll and the rollback.
		if rbErr := m.runtime.Unregister(context.WithoutCancel(ctx), m.config.Identity); rbErr != nil {
			logger.WarnCtx(ctx, "Rollback unregistration failed", logger.KeyError, rbErr)
		}
		return fmt.Errorf("waiting for service availability: %w", err)
	}

	m.setState(ctx, Running)
	if m.metrics != nil {
		m.metrics.RecordTransition("launch", time.Since(start))
	}
	return nil
}

// Terminate withdraws the service and blocks until the bus reports it
// unavailable. Terminating a stopped manager is a no-op.
func (m *Manager) Terminate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() == Stopped {
		logger.DebugCtx(ctx, "Terminate requested while stopped, nothing to do")
		return nil
	}

	done := logger.Scope("Terminate",
		logger.KeyDomain, m.config.Identity.Domain,
		logger.KeyInstance, m.config.Identity.Instance,
	)
	defer done()
	start := time.Now()

	attempt := 0
	err := m.config.Retry.Poll(ctx, func() bool {
		attempt++
		unregErr := m.runtime.Unregister(ctx, m.config.Identity)
		if m.metrics != nil {
			m.metrics.RecordRegisterAttempt("unregister", unregErr == nil)
		}
		if unregErr != nil {
			logger.WarnCtx(ctx, "Service unregistration failed, retrying",
				logger.KeyAttempt, attempt,
				logger.KeyError, unregErr,
			)
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("unregistering service: %w", err)
	}

	if err := m.awaitAvailability(ctx, false); err != nil {
		return fmt.Errorf("waiting for service withdrawal: %w", err)
	}

	m.setState(ctx, Stopped)
	if m.metrics != nil {
		m.metrics.RecordTransition("terminate", time.Since(start))
	}
	return nil
}

// Close terminates the service if it is running and rejects further
// launches.
func (m *Manager) Close() error {
	err := m.Terminate(context.Background())

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	return err
}

// configure runs one-time runtime initialization. Retried on the next
// transition if it fails.
func (m *Manager) configure(ctx context.Context) error {
	if m.configured {
		return nil
	}
	if c, ok := m.runtime.(bus.Configurable); ok {
		if err := c.Configure(ctx); err != nil {
			return fmt.Errorf("configuring runtime: %w", err)
		}
	}
	m.configured = true
	return nil
}

// awaitAvailability polls the bus until the service's availability
// matches want.
func (m *Manager) awaitAvailability(ctx context.Context, want bool) error {
	proxy := m.runtime.Proxy(m.config.Identity)
	return m.config.Retry.Poll(ctx, func() bool {
		matched := proxy.Available() == want
		if m.metrics != nil {
			m.metrics.RecordAvailabilityPoll(matched)
		}
		return matched
	})
}

func (m *Manager) setState(ctx context.Context, s State) {
	m.state.Store(int32(s))
	if m.metrics != nil {
		m.metrics.SetRunning(s == Running)
	}
	logger.InfoCtx(ctx, "Lifecycle state changed", logger.KeyState, s.String())
}
