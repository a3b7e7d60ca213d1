package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{name: "no endpoint"},
		{name: "explicitly disabled", endpoint: "http://localhost:4318", enabled: "FALSE"},
		// Non-routable so nothing is exported.
		{name: "endpoint set", endpoint: "http://192.0.2.1:4318"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvEndpoint, tt.endpoint)
			t.Setenv(EnvEnabled, tt.enabled)

			shutdown, err := Setup(context.Background(), "battlecalc-test")
			require.NoError(t, err)
			require.NoError(t, shutdown(context.Background()))
		})
	}
}

func TestNoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv(EnvEndpoint, "")

	shutdown, err := Setup(context.Background(), "battlecalc-test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}
