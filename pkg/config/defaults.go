package config

import (
	"strings"
	"time"

	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/retry"
)

// Standard discovery multicast parameters.
const (
	DefaultDiscoveryAddress = "224.244.224.245"
	DefaultDiscoveryPort    = 30490
)

// GetDefaultConfig returns a fully populated default configuration.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyEndpointDefaults(&cfg.Endpoint)
	applyDiscoveryDefaults(&cfg.Discovery)
	applyRetryDefaults(&cfg.Retry)
	applyAPIDefaults(&cfg.API)
	applyIdentityDefaults(&cfg.Identity)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyEndpointDefaults(cfg *EndpointConfig) {
	if cfg.Address == "" {
		cfg.Address = "127.0.0.1"
	}
	// Port 0 is a valid default: the endpoint picks a free port.
}

func applyDiscoveryDefaults(cfg *DiscoveryConfig) {
	if cfg.MulticastAddress == "" {
		cfg.MulticastAddress = DefaultDiscoveryAddress
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultDiscoveryPort
	}
}

func applyRetryDefaults(cfg *RetryConfig) {
	if cfg.Interval == 0 {
		cfg.Interval = retry.DefaultInterval
	}
	// MaxAttempts 0 means unbounded and stays as-is.
}

func applyAPIDefaults(cfg *APIConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
}

func applyIdentityDefaults(cfg *IdentityConfig) {
	if cfg.Domain == "" {
		cfg.Domain = bus.DefaultDomain
	}
	if cfg.Instance == "" {
		cfg.Instance = bus.DefaultInstance
	}
	if cfg.Interface == "" {
		cfg.Interface = bus.DefaultInterface
	}
	if cfg.Connection == "" {
		cfg.Connection = bus.DefaultConnection
	}
}

// BusIdentity converts the identity section to a validated bus identity.
func (c *Config) BusIdentity() (bus.Identity, error) {
	return bus.NewIdentity(c.Identity.Domain, c.Identity.Instance, c.Identity.Interface, c.Identity.Connection)
}

// RetryPolicy converts the retry section to a retry policy.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		Interval:    c.Retry.Interval,
		MaxAttempts: c.Retry.MaxAttempts,
	}
}
