package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/echo"
	"github.com/openmotive/someip-echo/pkg/retry"
)

// fakeRuntime is a scriptable bus.Runtime: it can fail the first N
// register or unregister calls and delay availability by a number of
// polls.
type fakeRuntime struct {
	mu sync.Mutex

	registerCalls      int
	unregisterCalls    int
	configureCalls     int
	registerFailures   int
	unregisterFailures int
	availabilityLag    int

	registered   bool
	pendingPolls int
}

func (f *fakeRuntime) Configure(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configureCalls++
	return nil
}

func (f *fakeRuntime) Register(_ context.Context, _ bus.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	if f.registerFailures > 0 {
		f.registerFailures--
		return errors.New("bus not ready")
	}
	f.registered = true
	f.pendingPolls = f.availabilityLag
	return nil
}

func (f *fakeRuntime) Unregister(_ context.Context, _ bus.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregisterCalls++
	if f.unregisterFailures > 0 {
		f.unregisterFailures--
		return errors.New("bus not ready")
	}
	f.registered = false
	return nil
}

func (f *fakeRuntime) Proxy(bus.Identity) bus.Proxy {
	return &fakeProxy{runtime: f}
}

type fakeProxy struct {
	runtime *fakeRuntime
}

func (p *fakeProxy) Available() bool {
	p.runtime.mu.Lock()
	defer p.runtime.mu.Unlock()
	if !p.runtime.registered {
		return false
	}
	if p.runtime.pendingPolls > 0 {
		p.runtime.pendingPolls--
		return false
	}
	return true
}

func newTestManager(f *fakeRuntime) *Manager {
	return NewManager(f, echo.NewService(), Config{
		Retry: retry.Policy{Interval: time.Millisecond},
	}, nil)
}

func TestLaunchTransitionsToRunning(t *testing.T) {
	f := &fakeRuntime{}
	m := newTestManager(f)

	if m.State() != Stopped {
		t.Fatalf("initial state = %s, want %s", m.State(), Stopped)
	}
	if err := m.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if m.State() != Running {
		t.Fatalf("state after launch = %s, want %s", m.State(), Running)
	}
	if f.registerCalls != 1 {
		t.Errorf("register calls = %d, want 1", f.registerCalls)
	}
}

func TestLaunchRetriesRegistration(t *testing.T) {
	f := &fakeRuntime{registerFailures: 3}
	m := newTestManager(f)

	if err := m.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if f.registerCalls != 4 {
		t.Errorf("register calls = %d, want 4", f.registerCalls)
	}
	if m.State() != Running {
		t.Fatalf("state = %s, want %s", m.State(), Running)
	}
}

func TestLaunchWaitsForAvailability(t *testing.T) {
	f := &fakeRuntime{availabilityLag: 5}
	m := newTestManager(f)

	if err := m.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if m.State() != Running {
		t.Fatalf("state = %s, want %s", m.State(), Running)
	}
	if f.pendingPolls != 0 {
		t.Errorf("pending polls = %d, want 0", f.pendingPolls)
	}
}

func TestLaunchIsIdempotent(t *testing.T) {
	f := &fakeRuntime{}
	m := newTestManager(f)

	for n := 0; n < 3; n++ {
		if err := m.Launch(context.Background()); err != nil {
			t.Fatalf("Launch: %v", err)
		}
	}
	if f.registerCalls != 1 {
		t.Errorf("register calls = %d, want 1", f.registerCalls)
	}
}

func TestTerminateTransitionsToStopped(t *testing.T) {
	f := &fakeRuntime{unregisterFailures: 2}
	m := newTestManager(f)

	if err := m.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if err := m.Terminate(context.Background()); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if m.State() != Stopped {
		t.Fatalf("state = %s, want %s", m.State(), Stopped)
	}
	if f.unregisterCalls != 3 {
		t.Errorf("unregister calls = %d, want 3", f.unregisterCalls)
	}
}

func TestTerminateWhileStoppedIsNoop(t *testing.T) {
	f := &fakeRuntime{}
	m := newTestManager(f)

	if err := m.Terminate(context.Background()); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if f.unregisterCalls != 0 {
		t.Errorf("unregister calls = %d, want 0", f.unregisterCalls)
	}
}

func TestLaunchCanceledDuringRegistration(t *testing.T) {
	f := &fakeRuntime{registerFailures: 1 << 30}
	m := newTestManager(f)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Launch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Launch error = %v, want deadline exceeded", err)
	}
	if m.State() != Stopped {
		t.Fatalf("state = %s, want %s", m.State(), Stopped)
	}
}

func TestLaunchCanceledDuringAvailabilityWaitRollsBack(t *testing.T) {
	f := &fakeRuntime{availabilityLag: 1 << 30}
	m := newTestManager(f)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Launch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Launch error = %v, want deadline exceeded", err)
	}
	if m.State() != Stopped {
		t.Fatalf("state = %s, want %s", m.State(), Stopped)
	}
	if f.unregisterCalls == 0 {
		t.Error("expected rollback unregistration after canceled launch")
	}
}

func TestLaunchBoundedAttemptsExhausted(t *testing.T) {
	f := &fakeRuntime{registerFailures: 1 << 30}
	m := NewManager(f, echo.NewService(), Config{
		Retry: retry.Policy{Interval: time.Millisecond, MaxAttempts: 3},
	}, nil)

	err := m.Launch(context.Background())
	if !errors.Is(err, retry.ErrAttemptsExhausted) {
		t.Fatalf("Launch error = %v, want %v", err, retry.ErrAttemptsExhausted)
	}
	if f.registerCalls != 3 {
		t.Errorf("register calls = %d, want 3", f.registerCalls)
	}
}

func TestConfigureRunsOnce(t *testing.T) {
	f := &fakeRuntime{}
	m := newTestManager(f)

	for n := 0; n < 2; n++ {
		if err := m.Launch(context.Background()); err != nil {
			t.Fatalf("Launch: %v", err)
		}
		if err := m.Terminate(context.Background()); err != nil {
			t.Fatalf("Terminate: %v", err)
		}
	}
	if f.configureCalls != 1 {
		t.Errorf("configure calls = %d, want 1", f.configureCalls)
	}
}

func TestCloseRejectsFurtherLaunches(t *testing.T) {
	f := &fakeRuntime{}
	m := newTestManager(f)

	if err := m.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.State() != Stopped {
		t.Fatalf("state after close = %s, want %s", m.State(), Stopped)
	}
	if err := m.Launch(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Launch after close = %v, want %v", err, ErrClosed)
	}
}

func TestConcurrentLaunchesRegisterOnce(t *testing.T) {
	f := &fakeRuntime{availabilityLag: 2}
	m := newTestManager(f)

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Launch(context.Background()); err != nil {
				t.Errorf("Launch: %v", err)
			}
		}()
	}
	wg.Wait()

	if f.registerCalls != 1 {
		t.Errorf("register calls = %d, want 1", f.registerCalls)
	}
	if m.State() != Running {
		t.Fatalf("state = %s, want %s", m.State(), Running)
	}
}

func TestConcurrentTransitionsSettle(t *testing.T) {
	f := &fakeRuntime{}
	m := newTestManager(f)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(launch bool) {
			defer wg.Done()
			if launch {
				_ = m.Launch(context.Background())
			} else {
				_ = m.Terminate(context.Background())
			}
		}(i%2 == 0)
	}
	wg.Wait()

	// Whatever the interleaving, the manager must settle in a defined
	// state and accept one more full cycle.
	if err := m.Launch(context.Background()); err != nil {
		t.Fatalf("Launch after churn: %v", err)
	}
	if err := m.Terminate(context.Background()); err != nil {
		t.Fatalf("Terminate after churn: %v", err)
	}
	if m.State() != Stopped {
		t.Fatalf("state = %s, want %s", m.State(), Stopped)
	}
}
