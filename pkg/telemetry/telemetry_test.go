package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/macropower/clipfix/pkg/telemetry"
)

func TestSetupDisabled(t *testing.T) {
	t.Parallel()

	shutdown, err := telemetry.Setup(t.Context(), "", false)
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestSetup(t *testing.T) {
	t.Parallel()

	// The gRPC connection is lazy, so no collector is needed to set up.
	shutdown, err := telemetry.Setup(t.Context(), "127.0.0.1:4317", true)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(t.Context(), "span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(t.Context()), 100*time.Millisecond)
	defer cancel()

	// Exporting fails without a collector; only the provider state matters.
	_ = shutdown(ctx) //nolint:errcheck // See above.
}
