package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/echo"
	"github.com/openmotive/someip-echo/pkg/lifecycle"
	"github.com/openmotive/someip-echo/pkg/retry"
)

// stubRuntime registers instantly and is always available once registered.
type stubRuntime struct {
	registered bool
}

func (s *stubRuntime) Register(context.Context, bus.Handle) error {
	s.registered = true
	return nil
}

func (s *stubRuntime) Unregister(context.Context, bus.Identity) error {
	s.registered = false
	return nil
}

func (s *stubRuntime) Proxy(bus.Identity) bus.Proxy { return stubProxy{s} }

type stubProxy struct{ runtime *stubRuntime }

func (p stubProxy) Available() bool { return p.runtime.registered }

func newTestRouter(t *testing.T) (http.Handler, *lifecycle.Manager) {
	t.Helper()
	manager := lifecycle.NewManager(&stubRuntime{}, echo.NewService(), lifecycle.Config{
		Retry: retry.Policy{Interval: time.Millisecond},
	}, nil)
	return NewRouter(manager, bus.DefaultIdentity()), manager
}

func TestHealthzAlwaysOK(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadyzTracksLifecycleState(t *testing.T) {
	router, manager := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /readyz while stopped = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	if err := manager.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /readyz while running = %d, want %d", rec.Code, http.StatusOK)
	}

	if err := manager.Terminate(context.Background()); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /readyz after terminate = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestStateReportsIdentity(t *testing.T) {
	router, manager := newTestRouter(t)

	if err := manager.Launch(context.Background()); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /state = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp stateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding state response: %v", err)
	}
	if resp.State != "running" {
		t.Errorf("state = %q, want running", resp.State)
	}
	if resp.Instance != bus.DefaultInstance {
		t.Errorf("instance = %q, want %q", resp.Instance, bus.DefaultInstance)
	}
	if resp.Interface != bus.DefaultInterface {
		t.Errorf("interface = %q, want %q", resp.Interface, bus.DefaultInterface)
	}
}
