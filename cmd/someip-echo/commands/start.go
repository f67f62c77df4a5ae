package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openmotive/someip-echo/internal/logger"
	"github.com/openmotive/someip-echo/pkg/api"
	"github.com/openmotive/someip-echo/pkg/bus/local"
	"github.com/openmotive/someip-echo/pkg/config"
	"github.com/openmotive/someip-echo/pkg/echo"
	"github.com/openmotive/someip-echo/pkg/lifecycle"
	"github.com/openmotive/someip-echo/pkg/metrics"
	promMetrics "github.com/openmotive/someip-echo/pkg/metrics/prometheus"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the echo service",
	Long: `Start the echo service and keep it offered on the bus until a
termination signal arrives.

The service registers under the standard test-service identity, waits
until the bus reports it available, and then answers echo requests on
its UDP endpoint. SIGINT or SIGTERM triggers a clean terminate: the
service is withdrawn from the bus before the process exits.

Examples:
  # Start with default config location
  someip-echo start

  # Start with custom config file
  someip-echo start --config /etc/someip-echo/config.yaml

  # Override settings via environment
  SOMEIP_ECHO_LOGGING_LEVEL=DEBUG someip-echo start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	logger.Info("Configuration loaded", "source", configSource(GetConfigFile()))

	// Files owned by the external bus runtime must exist before the
	// first transition; their contents are not ours to parse.
	runtimePaths, err := config.LoadRuntimePaths()
	if err != nil {
		return fmt.Errorf("runtime configuration: %w", err)
	}
	if runtimePaths.MiddlewareConfig != "" {
		logger.Info("Middleware configuration present", "path", runtimePaths.MiddlewareConfig)
	}
	if runtimePaths.TransportConfig != "" {
		logger.Info("Transport configuration present", "path", runtimePaths.TransportConfig)
	}

	identity, err := cfg.BusIdentity()
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Metrics collection enabled")
	}
	lifecycleMetrics := promMetrics.NewLifecycleMetrics()
	rpcMetrics := promMetrics.NewRPCMetrics()

	runtime := local.New(local.Config{
		Address: cfg.Endpoint.Address,
		Port:    cfg.Endpoint.Port,
		Binding: cfg.Endpoint.Binding,
	}, rpcMetrics)
	defer runtime.Close()

	manager := lifecycle.NewManager(runtime, echo.NewService(), lifecycle.Config{
		Identity: identity,
		Retry:    cfg.RetryPolicy(),
	}, lifecycleMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Management API runs for the whole process lifetime, so readiness
	// reflects the launch in progress.
	apiDone := make(chan error, 1)
	if cfg.API.Enabled {
		apiServer := api.NewServer(cfg.API, manager, identity)
		go func() {
			apiDone <- apiServer.Start(ctx)
		}()
	}

	// A signal during launch cancels the retry loop instead of killing
	// the process mid-transition.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	launchDone := make(chan error, 1)
	go func() {
		launchDone <- manager.Launch(ctx)
	}()

	select {
	case err := <-launchDone:
		if err != nil {
			return fmt.Errorf("launching service: %w", err)
		}
	case sig := <-sigChan:
		logger.Info("Signal received during launch, aborting", "signal", sig.String())
		cancel()
		<-launchDone
		return nil
	}

	logger.Info("Service is running. Press Ctrl+C to stop.",
		logger.KeyDomain, identity.Domain,
		logger.KeyInstance, identity.Instance,
	)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received, terminating service", "signal", sig.String())
	case err := <-apiDone:
		if err != nil {
			logger.Error("Management API failed, terminating service", logger.KeyError, err)
		}
	}

	termCtx, termCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer termCancel()
	if err := manager.Terminate(termCtx); err != nil {
		return fmt.Errorf("terminating service: %w", err)
	}
	cancel()

	logger.Info("Service stopped gracefully")
	return nil
}

// configSource describes where the configuration came from for logging.
func configSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
