// Package observability wires the OpenTelemetry meter to a Prometheus
// registry and defines the tool-level metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const meterName = "tradeflow-mcp"

// Provider owns the meter provider and the Prometheus registry backing it.
type Provider struct {
	registry      *prometheus.Registry
	meterProvider *sdkmetric.MeterProvider
}

// Config identifies the service in exported metrics.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Init sets up a Prometheus-backed global meter provider.
func Init(cfg Config) (*Provider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build otel resource: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	return &Provider{registry: registry, meterProvider: meterProvider}, nil
}

// Handler returns the /metrics HTTP handler.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.meterProvider.Shutdown(ctx)
}

// ToolMetrics holds metrics for MCP tool invocations.
type ToolMetrics struct {
	invocations metric.Int64Counter
	errors      metric.Int64Counter
	duration    metric.Float64Histogram
	active      metric.Int64UpDownCounter
}

// InitToolMetrics initializes tool invocation metrics on the global meter.
func InitToolMetrics() (*ToolMetrics, error) {
	meter := otel.Meter(meterName)

	invocations, err := meter.Int64Counter(
		"mcp.tool.invocations.total",
		metric.WithDescription("Total number of tool invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invocation counter: %w", err)
	}

	errCounter, err := meter.Int64Counter(
		"mcp.tool.errors.total",
		metric.WithDescription("Total number of failed tool invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"mcp.tool.duration",
		metric.WithDescription("Duration of tool invocations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter(
		"mcp.tool.invocations.active",
		metric.WithDescription("Number of in-flight tool invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active counter: %w", err)
	}

	return &ToolMetrics{
		invocations: invocations,
		errors:      errCounter,
		duration:    duration,
		active:      active,
	}, nil
}

// Begin records the start of an invocation and returns a completion func.
func (m *ToolMetrics) Begin(ctx context.Context, tool string) func(failed bool) {
	if m == nil {
		return func(bool) {}
	}
	attrs := metric.WithAttributes(attribute.String("tool", tool))
	started := time.Now()
	m.active.Add(ctx, 1, attrs)
	m.invocations.Add(ctx, 1, attrs)
	return func(failed bool) {
		m.active.Add(ctx, -1, attrs)
		m.duration.Record(ctx, float64(time.Since(started).Milliseconds()), attrs)
		if failed {
			m.errors.Add(ctx, 1, attrs)
		}
	}
}
