// Package local provides an in-process bus.Runtime: registered services
// are served by a UDP endpoint owned by the runtime, and availability
// reflects the actual reachability of that endpoint.
//
// Bringing the endpoint up happens asynchronously with respect to
// Register, so a proxy built right after registration reports unavailable
// until the socket is bound, the same lag a distributed bus exhibits.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	adapter "github.com/openmotive/someip-echo/internal/adapter/someip"
	"github.com/openmotive/someip-echo/internal/logger"
	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/metrics"
)

// Config holds the endpoint settings the runtime uses for registered
// services.
type Config struct {
	// Address is the unicast address endpoints bind to. Loopback by
	// default; local-domain services are not announced beyond the host.
	Address string

	// Port is the UDP port for the echo endpoint. 0 picks a free port.
	Port int

	// Binding names the generated binding library the runtime would load.
	// Recorded during Configure; the in-process runtime has nothing to
	// load.
	Binding string
}

// registration is one live service slot.
type registration struct {
	handle       bus.Handle
	connectionID string
	server       *adapter.Server
	cancel       context.CancelFunc
	done         chan struct{}
}

// Runtime is the in-process service-bus runtime.
type Runtime struct {
	config     Config
	rpcMetrics metrics.RPCMetrics

	mu       sync.Mutex
	services map[string]*registration // key: domain/instance/connection

	configureOnce sync.Once
}

// New creates a local runtime. rpcMetrics may be nil.
func New(cfg Config, rpcMetrics metrics.RPCMetrics) *Runtime {
	if cfg.Address == "" {
		cfg.Address = "127.0.0.1"
	}
	return &Runtime{
		config:     cfg,
		rpcMetrics: rpcMetrics,
		services:   make(map[string]*registration),
	}
}

// Configure performs one-time runtime initialization. Idempotent.
func (r *Runtime) Configure(ctx context.Context) error {
	r.configureOnce.Do(func() {
		logger.InfoCtx(ctx, "Bus runtime configured", "binding", r.config.Binding, "address", r.config.Address)
	})
	return nil
}

// serviceKey addresses a registration the way proxies do.
func serviceKey(domain, instance, connection string) string {
	return domain + "/" + instance + "/" + connection
}

// Register offers the handle on the bus and asynchronously brings up its
// UDP endpoint. A second registration under the same key is an error.
func (r *Runtime) Register(ctx context.Context, h bus.Handle) error {
	id := h.Identity

	r.mu.Lock()
	defer r.mu.Unlock()

	key := serviceKey(id.Domain, id.Instance, id.Connection)
	if _, exists := r.services[key]; exists {
		return fmt.Errorf("service %s is already registered", id)
	}

	server := adapter.NewServer(adapter.ServerConfig{
		Address: r.config.Address,
		Port:    r.config.Port,
	}, h.Contract, r.rpcMetrics)

	serveCtx, cancel := context.WithCancel(context.Background())
	reg := &registration{
		handle:       h,
		connectionID: uuid.NewString(),
		server:       server,
		cancel:       cancel,
		done:         make(chan struct{}),
	}

	go func() {
		defer close(reg.done)
		if err := server.Serve(serveCtx); err != nil {
			logger.Error("Echo endpoint failed", "identity", id.String(), "error", err)
			// Drop the dead registration so a retried Register can succeed.
			r.mu.Lock()
			if r.services[key] == reg {
				delete(r.services, key)
			}
			r.mu.Unlock()
		}
	}()

	r.services[key] = reg

	logger.InfoCtx(ctx, "Service registered",
		"domain", id.Domain,
		"instance", id.Instance,
		"connection", id.Connection,
		"connection_id", reg.connectionID,
	)
	return nil
}

// Unregister withdraws the service and tears its endpoint down. Returns
// after the endpoint socket is closed; internal cleanup may continue in
// the background.
func (r *Runtime) Unregister(ctx context.Context, id bus.Identity) error {
	r.mu.Lock()

	// Unregistration addresses services by domain, interface, and
	// instance; scan for the matching slot.
	var key string
	var reg *registration
	for k, candidate := range r.services {
		cid := candidate.handle.Identity
		if cid.Domain == id.Domain && cid.Interface == id.Interface && cid.Instance == id.Instance {
			key, reg = k, candidate
			break
		}
	}
	if reg == nil {
		r.mu.Unlock()
		return fmt.Errorf("service %s is not registered", id)
	}
	delete(r.services, key)
	r.mu.Unlock()

	reg.cancel()
	reg.server.Stop()
	<-reg.done

	logger.InfoCtx(ctx, "Service unregistered",
		"domain", id.Domain,
		"interface", id.Interface,
		"instance", id.Instance,
		"connection_id", reg.connectionID,
	)
	return nil
}

// Proxy builds an availability probe for the identity. Building never
// fails; the probe reports unavailable until the service's endpoint
// answers on the wire.
func (r *Runtime) Proxy(id bus.Identity) bus.Proxy {
	return &proxy{
		runtime: r,
		key:     serviceKey(id.Domain, id.Instance, id.Connection),
	}
}

// endpointPort returns the bound endpoint port for a registration key, or
// 0 when the service is absent or its socket is not up yet.
func (r *Runtime) endpointPort(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.services[key]
	if !ok {
		return 0
	}
	return reg.server.Port()
}

// Close tears down every registered service. Used on process shutdown.
func (r *Runtime) Close() {
	r.mu.Lock()
	regs := make([]*registration, 0, len(r.services))
	for k, reg := range r.services {
		regs = append(regs, reg)
		delete(r.services, k)
	}
	r.mu.Unlock()

	for _, reg := range regs {
		reg.cancel()
		reg.server.Stop()
		<-reg.done
	}
}
