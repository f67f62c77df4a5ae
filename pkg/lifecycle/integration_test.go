package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openmotive/someip-echo/pkg/bus"
	"github.com/openmotive/someip-echo/pkg/bus/local"
	"github.com/openmotive/someip-echo/pkg/echo"
	"github.com/openmotive/someip-echo/pkg/lifecycle"
	"github.com/openmotive/someip-echo/pkg/retry"
)

// TestLifecycleOverLocalRuntime drives a full launch/terminate cycle
// against the real in-process runtime with a live UDP endpoint.
func TestLifecycleOverLocalRuntime(t *testing.T) {
	runtime := local.New(local.Config{Address: "127.0.0.1", Port: 0}, nil)
	defer runtime.Close()

	identity := bus.DefaultIdentity()
	manager := lifecycle.NewManager(runtime, echo.NewService(), lifecycle.Config{
		Identity: identity,
		Retry:    retry.Policy{Interval: 10 * time.Millisecond},
	}, nil)
	defer manager.Close()

	proxy := runtime.Proxy(identity)
	require.False(t, proxy.Available(), "service must not be reachable before launch")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, manager.Launch(ctx))
	require.Equal(t, lifecycle.Running, manager.State())
	require.True(t, proxy.Available(), "launch must not return before the bus reports availability")

	// A second launch changes nothing.
	require.NoError(t, manager.Launch(ctx))
	require.Equal(t, lifecycle.Running, manager.State())

	require.NoError(t, manager.Terminate(ctx))
	require.Equal(t, lifecycle.Stopped, manager.State())
	require.False(t, proxy.Available(), "service must be unreachable after terminate")

	// The cycle is repeatable.
	require.NoError(t, manager.Launch(ctx))
	require.True(t, proxy.Available())
	require.NoError(t, manager.Terminate(ctx))
}
