package trace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := NewProvider(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Enabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:4318")
	t.Setenv("OTEL_SERVICE_NAME", "cenov2-test")

	p, err := NewProvider(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.Shutdown(ctx) // nothing buffered; collector need not be running
}
