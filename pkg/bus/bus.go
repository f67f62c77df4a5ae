// Package bus defines the contract between the echo service and the
// service-bus runtime that performs discovery, registration, and message
// routing.
//
// The runtime itself is an external collaborator: this package only pins
// down the surface the lifecycle manager depends on. A real in-process
// implementation lives in bus/local.
package bus

import (
	"context"

	"github.com/openmotive/someip-echo/pkg/echo"
)

// Proxy is a client-side view of a registered service used to observe its
// availability on the bus.
type Proxy interface {
	// Available reports whether the identity currently has an active,
	// reachable connection on the bus. The signal is asynchronous with
	// respect to Register/Unregister: it lags until the runtime has
	// actually brought the connection up or torn it down.
	Available() bool
}

// Runtime is the service-bus runtime the lifecycle manager drives.
//
// All failures a runtime can report through these methods are transient by
// contract; callers retry until the operation succeeds.
type Runtime interface {
	// Register offers the handle's contract implementation on the bus
	// under the handle's identity. Registration uses the domain, instance,
	// and connection fields of the identity.
	Register(ctx context.Context, h Handle) error

	// Unregister withdraws the service addressed by the identity's domain,
	// interface, and instance fields.
	Unregister(ctx context.Context, id Identity) error

	// Proxy builds an availability probe for the identity's domain,
	// instance, and connection fields. Building a proxy never fails; the
	// returned probe simply reports unavailable until the service is
	// reachable.
	Proxy(id Identity) Proxy
}

// Configurable is implemented by runtimes that need one-time process
// configuration before the first registration. The lifecycle manager
// calls Configure at most once per manager.
type Configurable interface {
	Configure(ctx context.Context) error
}

// Handle is a registerable unit: an identity bound to the contract
// implementation that will answer calls addressed to it. The implementation
// instance is exclusively owned by its handle.
type Handle struct {
	Identity Identity
	Contract echo.Contract
}

// NewHandle binds a contract implementation to an identity.
func NewHandle(id Identity, contract echo.Contract) Handle {
	return Handle{Identity: id, Contract: contract}
}
