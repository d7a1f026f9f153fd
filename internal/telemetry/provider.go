package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "dockhosts"

// Options configure trace export. With no endpoint, spans are only logged.
// The endpoint's scheme selects the transport: http:// exports without TLS.
type Options struct {
	OTLPEndpoint string
}

// Provider owns the SDK tracer provider for the process.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// NewProvider builds a tracer provider that logs finished steps at debug
// level and, when an endpoint is configured, exports spans over OTLP/HTTP.
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	spOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(&logSpanProcessor{log: slog.With("component", "telemetry")}),
	}

	if endpoint := strings.TrimSpace(opts.OTLPEndpoint); endpoint != "" {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
		spOpts = append(spOpts, sdktrace.WithBatcher(exporter))
	}

	return &Provider{provider: sdktrace.NewTracerProvider(spOpts...)}, nil
}

func (p *Provider) Tracer() trace.Tracer {
	return p.provider.Tracer(tracerName)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// logSpanProcessor reports every finished span as a debug log line.
type logSpanProcessor struct {
	log *slog.Logger
}

func (p *logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	args := []any{
		"span", span.Name(),
		"duration", span.EndTime().Sub(span.StartTime()),
	}
	if !span.Parent().IsValid() {
		args = append(args, "trace_id", span.SpanContext().TraceID().String())
		for _, kv := range span.Attributes() {
			if kv.Key == PlanJSONKey {
				continue
			}
			args = append(args, string(kv.Key), attributeString(kv))
		}
	}

	status := span.Status()
	if status.Code == codes.Error {
		p.log.Debug("step failed", append(args, "err", status.Description)...)
		return
	}
	p.log.Debug("step done", args...)
}

func (p *logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(context.Context) error { return nil }

func attributeString(kv attribute.KeyValue) string {
	return kv.Value.Emit()
}
