package telemetry

import (
	"context"

	"github.com/storefront/backend/internal/infrastructure/config"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// SpanFromContextForTest exposes the active span context to external tests
func SpanFromContextForTest(ctx context.Context) trace.SpanContext {
	return trace.SpanContextFromContext(ctx)
}

// SanitizeLabelsForTest exposes label sanitizing to external tests
var SanitizeLabelsForTest = sanitizeLabels

// InstallTracerProviderForTest runs the global install step against provider
func InstallTracerProviderForTest(cfg config.TelemetryConfig, provider *sdktrace.TracerProvider) *TracerProvider {
	tp := &TracerProvider{config: cfg}
	tp.install(provider)
	return tp
}
