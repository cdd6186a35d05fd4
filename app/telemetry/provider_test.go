package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestConfigValidate tests tracing config validation
func TestConfigValidate(t *testing.T) {
	require.NoError(t, Config{}.Validate())
	require.NoError(t, Config{Enabled: true, OTLPEndpoint: "localhost:4318", SampleRate: 0.5}.Validate())
	require.Error(t, Config{Enabled: true, SampleRate: 0.5}.Validate())
	require.Error(t, Config{Enabled: true, OTLPEndpoint: "localhost:4318", SampleRate: 2}.Validate())
}

// TestProviderDisabled tests that a provider with no exporters hands out no-op instruments
func TestProviderDisabled(t *testing.T) {
	p, err := NewProvider(Config{Environment: "test", NodeID: "node0"})
	require.NoError(t, err)
	require.NotNil(t, p.Tracer())
	require.NotNil(t, p.Meter())
	require.NoError(t, p.HealthCheck())
	require.NoError(t, p.Shutdown(context.Background()))
}

// TestProviderTracing tests that an OTLP tracer provider starts without contacting the collector
func TestProviderTracing(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, OTLPEndpoint: "http://127.0.0.1:4318", SampleRate: 1})
	require.NoError(t, err)
	require.NoError(t, p.HealthCheck())

	_, span := p.Tracer().Start(context.Background(), "test")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}

// TestOperationRecorder tests that operations are counted per outcome
func TestOperationRecorder(t *testing.T) {
	reader := metricsdk.NewManualReader()
	mp := metricsdk.NewMeterProvider(metricsdk.WithReader(reader))

	rec, err := NewOperationRecorder(mp.Meter(InstrumentationName))
	require.NoError(t, err)

	ctx := context.Background()
	rec.Record(ctx, "compute", "create_job", OutcomeOK, time.Millisecond)
	rec.Record(ctx, "compute", "create_job", OutcomeOK, time.Millisecond)
	rec.Record(ctx, "compute", "accept_job", "state", time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	var total int64
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name != "zkmarket.operations" {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 2)
		for _, dp := range sum.DataPoints {
			total += dp.Value
		}
	}
	require.Equal(t, int64(3), total)
}
