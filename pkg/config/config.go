// Package config loads the echo service configuration from file,
// environment, and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config captures the static configuration of the echo service.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (SOMEIP_ECHO_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Everything here is read once at startup, before the first lifecycle
// transition. There is no hot reload.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Endpoint configures the UDP endpoint the echo service answers on
	Endpoint EndpointConfig `mapstructure:"endpoint" yaml:"endpoint"`

	// Discovery configures service-discovery multicast parameters.
	// Passed through to the bus runtime; the in-process runtime ignores it.
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`

	// Retry governs lifecycle registration attempts and availability polling
	Retry RetryConfig `mapstructure:"retry" yaml:"retry"`

	// API contains the management HTTP server configuration
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Metrics controls Prometheus metrics collection
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Identity overrides the service identity on the bus.
	// Empty fields keep the standard test-service identity.
	Identity IdentityConfig `mapstructure:"identity" yaml:"identity"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// EndpointConfig configures the service's UDP endpoint.
type EndpointConfig struct {
	// Address is the unicast address the endpoint binds to
	// Default: 127.0.0.1
	Address string `mapstructure:"address" validate:"required,ip" yaml:"address"`

	// Port is the UDP port for the endpoint. 0 picks a free port.
	Port int `mapstructure:"port" validate:"min=0,max=65535" yaml:"port"`

	// Binding names the binding library the bus runtime loads for this
	// service. Informational for the in-process runtime.
	Binding string `mapstructure:"binding" yaml:"binding,omitempty"`
}

// DiscoveryConfig holds service-discovery multicast parameters.
type DiscoveryConfig struct {
	// Enabled controls whether the runtime announces the service
	// Default: false (local-domain only)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// MulticastAddress is the discovery multicast group
	// Default: 224.244.224.245
	MulticastAddress string `mapstructure:"multicast_address" validate:"omitempty,ip" yaml:"multicast_address"`

	// Port is the discovery port
	// Default: 30490
	Port int `mapstructure:"port" validate:"min=0,max=65535" yaml:"port"`
}

// RetryConfig governs the lifecycle manager's retry behavior.
type RetryConfig struct {
	// Interval is the pause between registration attempts and between
	// availability polls
	// Default: 100ms
	Interval time.Duration `mapstructure:"interval" validate:"omitempty,gt=0" yaml:"interval"`

	// MaxAttempts bounds retry loops. 0 retries without bound, which is
	// the standard behavior: only cancellation stops a transition.
	MaxAttempts uint64 `mapstructure:"max_attempts" yaml:"max_attempts,omitempty"`
}

// APIConfig configures the management HTTP server.
type APIConfig struct {
	// Enabled controls whether the HTTP server is started
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP listen port
	// Default: 8080
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout bounds request reads
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds response writes
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// MetricsConfig controls Prometheus metrics collection.
// When Enabled is false no collectors are registered.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served via the
	// management API
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// IdentityConfig overrides the service identity on the bus.
type IdentityConfig struct {
	// Domain is the bus domain. Default: "local"
	Domain string `mapstructure:"domain" yaml:"domain,omitempty"`

	// Instance is the service instance name. Default: "test.TestService"
	Instance string `mapstructure:"instance" yaml:"instance,omitempty"`

	// Interface is the versioned interface name.
	// Default: "test.TestService:v0_1"
	Interface string `mapstructure:"interface" yaml:"interface,omitempty"`

	// Connection is the application connection name.
	// Default: "test-service"
	Connection string `mapstructure:"connection" yaml:"connection,omitempty"`
}

// Environment variables naming files owned by the external bus runtime.
// The contents are opaque to this process; only existence is checked.
const (
	EnvMiddlewareConfig = "SOMEIP_ECHO_MIDDLEWARE_CONFIG"
	EnvTransportConfig  = "SOMEIP_ECHO_TRANSPORT_CONFIG"
)

// RuntimePaths holds the external runtime configuration file paths taken
// from the environment. Empty fields mean the variable was unset.
type RuntimePaths struct {
	MiddlewareConfig string
	TransportConfig  string
}

// LoadRuntimePaths reads the external runtime config paths from the
// environment and verifies that any set path names an existing file.
func LoadRuntimePaths() (RuntimePaths, error) {
	paths := RuntimePaths{
		MiddlewareConfig: os.Getenv(EnvMiddlewareConfig),
		TransportConfig:  os.Getenv(EnvTransportConfig),
	}
	for env, path := range map[string]string{
		EnvMiddlewareConfig: paths.MiddlewareConfig,
		EnvTransportConfig:  paths.TransportConfig,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return RuntimePaths{}, fmt.Errorf("%s names %q: %w", env, path, err)
		}
	}
	return paths, nil
}

// Load loads configuration from file, environment, and defaults.
//
// configPath may be empty, in which case the default location is searched
// and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !configFileFound {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file
// settings. Environment variables use the SOMEIP_ECHO_ prefix, e.g.
// SOMEIP_ECHO_LOGGING_LEVEL=DEBUG.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SOMEIP_ECHO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. Returns
// whether a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook converts strings like "100ms" and raw numbers
// (nanoseconds) to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path. Uses
// XDG_CONFIG_HOME if set, otherwise ~/.config/someip-echo.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "someip-echo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "someip-echo")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks for a config file at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
