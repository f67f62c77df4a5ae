// Package someip implements the UDP endpoint that answers echo RPC
// requests for a registered service instance.
//
// Each datagram carries one complete SOME/IP message; there is no record
// marking or fragmentation. The endpoint is brought up by the bus runtime
// when a service registers and torn down when it unregisters.
package someip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/openmotive/someip-echo/internal/logger"
	"github.com/openmotive/someip-echo/pkg/echo"
	"github.com/openmotive/someip-echo/pkg/metrics"
)

// maxDatagramSize bounds a single request. The largest catalogue payload is
// well under 1 KiB; 64 KiB covers the UDP maximum.
const maxDatagramSize = 64 * 1024

// ServerConfig holds configuration for the endpoint server.
type ServerConfig struct {
	// Address is the unicast address to bind. Loopback by default.
	Address string

	// Port is the UDP port to bind. 0 picks a free port.
	Port int
}

// Server is the UDP endpoint answering echo RPC requests.
type Server struct {
	config   ServerConfig
	contract echo.Contract
	metrics  metrics.RPCMetrics

	conn          *net.UDPConn
	shutdown      chan struct{}
	shutdownOnce  sync.Once
	wg            sync.WaitGroup
	listenerReady chan struct{}

	mu        sync.Mutex
	boundPort int
}

// NewServer creates an endpoint server answering with the given contract.
// rpcMetrics may be nil to disable metrics collection.
func NewServer(cfg ServerConfig, contract echo.Contract, rpcMetrics metrics.RPCMetrics) *Server {
	if cfg.Address == "" {
		cfg.Address = "127.0.0.1"
	}
	return &Server{
		config:        cfg,
		contract:      contract,
		metrics:       rpcMetrics,
		shutdown:      make(chan struct{}),
		listenerReady: make(chan struct{}),
	}
}

// Serve binds the UDP socket and answers requests until the context is
// cancelled or Stop is called. After the socket is bound, WaitReady()
// unblocks and Port() reports the effective port.
func (s *Server) Serve(ctx context.Context) error {
	addr := &net.UDPAddr{IP: net.ParseIP(s.config.Address), Port: s.config.Port}
	if addr.IP == nil {
		return fmt.Errorf("invalid endpoint address %q", s.config.Address)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen UDP %s:%d: %w", s.config.Address, s.config.Port, err)
	}
	s.conn = conn

	s.mu.Lock()
	s.boundPort = conn.LocalAddr().(*net.UDPAddr).Port
	s.mu.Unlock()

	close(s.listenerReady)

	logger.Info("Echo endpoint started", "address", s.config.Address, "port", s.Port())

	s.wg.Add(1)
	go s.serve(ctx)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.shutdown:
		}
	}()

	s.wg.Wait()
	return nil
}

// WaitReady returns a channel that is closed once the UDP socket is bound
// and requests can be answered. Callers should select on it with a timeout
// to detect startup failures.
func (s *Server) WaitReady() <-chan struct{} {
	return s.listenerReady
}

// Port returns the bound UDP port, or 0 before the socket is up.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundPort
}

// Stop closes the socket and stops the serve loop. Safe to call multiple
// times and before Serve.
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

// serve reads datagrams and answers them until the socket is closed.
func (s *Server) serve(ctx context.Context) {
	defer s.wg.Done()

	buf := make([]byte, maxDatagramSize)
	for {
		n, clientAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.shutdown:
				logger.Debug("Echo endpoint read loop stopping")
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn("Echo endpoint read error", "error", err)
			continue
		}

		request := make([]byte, n)
		copy(request, buf[:n])

		response := s.handleDatagram(ctx, request, clientAddr)
		if response == nil {
			continue
		}

		if _, err := s.conn.WriteToUDP(response, clientAddr); err != nil {
			logger.Warn("Echo endpoint write error", "client_addr", clientAddr.String(), "error", err)
		}
	}
}
