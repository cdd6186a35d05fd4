// Package telemetry wires OpenTelemetry into the node: spans are exported
// over OTLP/HTTP and otel instruments are served from the Prometheus
// default registry next to the keeper collectors.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer and meter.
const InstrumentationName = "zkmarket"

// Config selects which exporters the provider starts.
type Config struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRate   float64

	Environment string
	NodeID      string

	PrometheusEnabled bool
}

// Validate checks the tracing settings. It is a no-op when tracing is off.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.OTLPEndpoint == "" {
		return errors.New("otlp endpoint is required when tracing is enabled")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample rate %v outside [0, 1]", c.SampleRate)
	}
	return nil
}

// Provider owns the trace and meter providers. With both exporters off
// Tracer and Meter fall back to the global no-op implementations.
type Provider struct {
	cfg    Config
	traces *tracesdk.TracerProvider
	meters *metricsdk.MeterProvider
}

// NewProvider starts the exporters enabled in cfg.
func NewProvider(cfg Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(InstrumentationName),
		attribute.String("deployment.environment", cfg.Environment),
		attribute.String("node.id", cfg.NodeID),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{cfg: cfg}
	if cfg.Enabled {
		if p.traces, err = newTracerProvider(cfg, res); err != nil {
			return nil, err
		}
		otel.SetTracerProvider(p.traces)
	}
	if cfg.PrometheusEnabled {
		if p.meters, err = newMeterProvider(res); err != nil {
			return nil, err
		}
		otel.SetMeterProvider(p.meters)
	}
	return p, nil
}

func newTracerProvider(cfg Config, res *resource.Resource) (*tracesdk.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithURLPath("/v1/traces")}
	if u, err := url.Parse(cfg.OTLPEndpoint); err == nil && u.Host != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(u.Host))
		if u.Scheme != "https" {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint), otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter, tracesdk.WithBatchTimeout(5*time.Second)),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	), nil
}

func newMeterProvider(res *resource.Resource) (*metricsdk.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	return metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	), nil
}

// Tracer returns the tracer operation spans are recorded on.
func (p *Provider) Tracer() trace.Tracer {
	if p.traces == nil {
		return otel.Tracer(InstrumentationName)
	}
	return p.traces.Tracer(InstrumentationName)
}

// Meter returns the meter operation instruments are created on.
func (p *Provider) Meter() metric.Meter {
	if p.meters == nil {
		return otel.Meter(InstrumentationName)
	}
	return p.meters.Meter(InstrumentationName)
}

// HealthCheck reports an error when an enabled exporter never started.
func (p *Provider) HealthCheck() error {
	if p.cfg.Enabled && p.traces == nil {
		return errors.New("tracing enabled but tracer provider not running")
	}
	if p.cfg.PrometheusEnabled && p.meters == nil {
		return errors.New("prometheus enabled but meter provider not running")
	}
	return nil
}

// Shutdown flushes pending spans and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.traces != nil {
		if err := p.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.meters != nil {
		if err := p.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
