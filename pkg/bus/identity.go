package bus

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default identity of the echo test service. The interface name carries the
// version tag the IDL deployment assigns.
const (
	DefaultDomain     = "local"
	DefaultInstance   = "test.TestService"
	DefaultInterface  = "test.TestService:v0_1"
	DefaultConnection = "test-service"
)

var validate = validator.New()

// Identity addresses one service instance on the bus. All four fields are
// fixed at construction and non-empty.
//
// Different operations consume different field subsets: registration uses
// domain, instance, and connection; unregistration uses domain, interface,
// and instance; availability probing uses domain, instance, and connection.
type Identity struct {
	Domain     string `validate:"required"`
	Instance   string `validate:"required"`
	Interface  string `validate:"required"`
	Connection string `validate:"required"`
}

// NewIdentity builds a validated identity. Empty fields are a construction
// error, never a runtime one.
func NewIdentity(domain, instance, iface, connection string) (Identity, error) {
	id := Identity{
		Domain:     domain,
		Instance:   instance,
		Interface:  iface,
		Connection: connection,
	}
	if err := validate.Struct(id); err != nil {
		return Identity{}, fmt.Errorf("invalid service identity: %w", err)
	}
	return id, nil
}

// DefaultIdentity returns the identity of the echo test service.
func DefaultIdentity() Identity {
	return Identity{
		Domain:     DefaultDomain,
		Instance:   DefaultInstance,
		Interface:  DefaultInterface,
		Connection: DefaultConnection,
	}
}

func (id Identity) String() string {
	return fmt.Sprintf("%s:%s:%s@%s", id.Domain, id.Interface, id.Instance, id.Connection)
}
