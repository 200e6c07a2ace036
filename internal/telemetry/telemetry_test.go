package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), Config{
		Endpoint:    "localhost:4317",
		ServiceName: "alert-digest-test",
		SampleRatio: 1.0,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// No spans or metrics were recorded, so shutdown has nothing to flush.
	// The collector endpoint is never dialed eagerly.
	_ = shutdown(context.Background())
}
