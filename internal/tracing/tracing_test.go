package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	tp, err := Init(context.Background(), Config{})
	require.NoError(t, err)

	assert.False(t, tp.Enabled())
	_, span := StartSpan(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestInit_WithEndpoint(t *testing.T) {
	tp, err := Init(context.Background(), Config{OTLPEndpoint: "127.0.0.1:4318", Insecure: true, ServiceVersion: "test"})
	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	ctx, span := StartSpan(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	_ = tp.Shutdown(ctx)
}
