package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openmotive/someip-echo/internal/logger"
	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/lifecycle"
	"github.com/openmotive/someip-echo/pkg/metrics"
)

// NewRouter creates the management router.
//
// Routes:
//   - GET /healthz - process liveness
//   - GET /readyz - readiness, 200 iff the service is running on the bus
//   - GET /state - current lifecycle state and identity as JSON
//   - GET /metrics - Prometheus metrics (only when metrics are enabled)
func NewRouter(manager *lifecycle.Manager, identity bus.Identity) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !manager.Running() {
			http.Error(w, "service not running", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stateResponse{
			State:      manager.State().String(),
			Domain:     identity.Domain,
			Instance:   identity.Instance,
			Interface:  identity.Interface,
			Connection: identity.Connection,
		})
	})

	if metrics.IsEnabled() {
		r.Get("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP)
	}

	return r
}

type stateResponse struct {
	State      string `json:"state"`
	Domain     string `json:"domain"`
	Instance   string `json:"instance"`
	Interface  string `json:"interface"`
	Connection string `json:"connection"`
}

// requestLogger logs each request with method, path, status, and timing.
// Probe endpoints log at DEBUG to keep steady-state logs quiet.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		}

		if isProbePath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
			return
		}
		logger.Info("API request completed", logArgs...)
	})
}

func isProbePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || strings.HasPrefix(path, "/metrics")
}
