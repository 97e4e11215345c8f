package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "spa-test",
	}

	tp, err := NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("reports"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name   string
		ratio  float64
		expect string
	}{
		{"always", 1.0, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{"above one", 3, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{"never", 0, sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{"ratio", 0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, newSampler(tt.ratio).Description())
		})
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("spa-test")
	require.NoError(t, err)

	found := false
	for _, attr := range res.Attributes() {
		if attr.Key == "service.name" {
			found = true
			assert.Equal(t, "spa-test", attr.Value.AsString())
		}
	}
	assert.True(t, found, "service.name attribute missing")
}
