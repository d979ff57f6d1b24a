package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The entrypoint calls InitTracer unconditionally and defers the shutdown,
// so with OTEL_ENABLED unset both must be safe no-ops.
func TestInitTracerDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")

	shutdown := InitTracer()
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
