// Package tracing wires the OpenTelemetry SDK for exporting trace spans
// to an OTLP HTTP collector.
package tracing

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	defaultServiceName    = "gensum"
	defaultShutdownPeriod = 5 * time.Second
)

// Config holds trace export settings.
type Config struct {
	Enabled     bool
	ServiceName string
	// Endpoint is the OTLP HTTP collector base URL; the /v1/traces path is
	// appended when missing.
	Endpoint string
	// PublicKey and SecretKey authenticate against Langfuse-style collectors
	// via Basic auth. Both empty disables the Authorization header.
	PublicKey  string
	SecretKey  string
	Sampler    string
	SamplerArg float64
}

// Validate normalizes defaults and checks the endpoint shape.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	if c.Sampler == "" {
		c.Sampler = "always_on"
	}

	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("tracing: endpoint is required when tracing is enabled")
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("tracing: endpoint must include http or https scheme")
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("tracing: invalid endpoint: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("tracing: endpoint must include a host")
	}
	return nil
}

// ShutdownFunc flushes pending spans and releases exporter resources.
type ShutdownFunc func(context.Context) error

// Init installs the global tracer provider and W3C propagator.
// With tracing disabled, a never-sampling provider is installed so the
// instrumented code paths behave identically with no-op spans.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.NeverSample()),
		)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(defaultPropagator())
		return newShutdownFunc(tp), nil
	}

	exporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("tracing: create OTLP exporter: %w", err)
	}

	res, err := newResource(ctx, cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(samplerFromConfig(cfg)),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(defaultPropagator())

	return newShutdownFunc(tp), nil
}

func newTraceExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	endpoint, err := normalizeOTLPHTTPPath(cfg.Endpoint, "/v1/traces")
	if err != nil {
		return nil, fmt.Errorf("invalid OTLP HTTP endpoint: %w", err)
	}

	options := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(endpoint),
	}

	if headers := authHeaders(cfg); len(headers) > 0 {
		options = append(options, otlptracehttp.WithHeaders(headers))
	}

	if strings.HasPrefix(endpoint, "http://") {
		options = append(options, otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, options...)
}

// authHeaders builds the Basic auth header from the collector key pair.
func authHeaders(cfg Config) map[string]string {
	if cfg.PublicKey == "" && cfg.SecretKey == "" {
		return nil
	}
	token := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))
	return map[string]string{"Authorization": "Basic " + token}
}

func samplerFromConfig(cfg Config) sdktrace.Sampler {
	switch strings.ToLower(strings.TrimSpace(cfg.Sampler)) {
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerArg))
	case "parentbased_always_on":
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	default:
		return sdktrace.AlwaysSample()
	}
}

func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
		),
	)
}

func defaultPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

func newShutdownFunc(tp *sdktrace.TracerProvider) ShutdownFunc {
	return func(ctx context.Context) error {
		shutdownCtx := ctx
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, defaultShutdownPeriod)
			defer cancel()
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("tracing: shutdown tracer provider: %w", err)
		}
		return nil
	}
}
