// Package api exposes the management HTTP surface of the echo service:
// health and readiness probes, lifecycle state, and Prometheus metrics.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/openmotive/someip-echo/internal/logger"
	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/config"
	"github.com/openmotive/someip-echo/pkg/lifecycle"
)

// Server is the management HTTP server. It only observes the lifecycle
// manager; it never drives transitions.
type Server struct {
	server       *http.Server
	config       config.APIConfig
	shutdownOnce sync.Once
}

// NewServer creates the management server in a stopped state. Call Start
// to begin serving.
func NewServer(cfg config.APIConfig, manager *lifecycle.Manager, identity bus.Identity) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      NewRouter(manager, identity),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		config: cfg,
	}
}

// Start serves until the context is cancelled or the listener fails.
// Cancellation triggers graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Management API listening", logger.KeyPort, s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Management API shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("management API failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("management API shutdown error: %w", err)
		} else {
			logger.Info("Management API stopped")
		}
	})
	return shutdownErr
}
