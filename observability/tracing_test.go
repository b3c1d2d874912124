package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/oudeng/Interconnected-SEIRAH/logging"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), DefaultTracingConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestInitTracing_StdoutExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Writer = &buf

	shutdown, err := InitTracing(context.Background(), cfg, logging.Noop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = InitTracing(context.Background(), DefaultTracingConfig(), nil)
	})

	_, span := otel.Tracer("test").Start(context.Background(), "calibrate")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ShutdownWithTimeout(context.Background(), shutdown, nil)
	assert.Contains(t, buf.String(), `"Name":"calibrate"`)
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Exporter = "zipkin"

	_, err := InitTracing(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestShutdownWithTimeout_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ShutdownWithTimeout(context.Background(), nil, nil) })
}
