package infrastructure

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracingEmitsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(&buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "pipeline.run")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "pipeline.run")
}
