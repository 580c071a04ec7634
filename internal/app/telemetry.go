package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"zip_compression/config"
	ttrace "zip_compression/internal/telemetry/trace"
	traceExporter "zip_compression/internal/telemetry/trace/exporter"
)

// InitGlobalProvider installs a tracer provider for the configured exporter.
// With no exporter the otel global no-op provider stays in place.
func (a *App) InitGlobalProvider(cfg *config.Config) error {
	var (
		spanExporter sdktrace.SpanExporter
		err          error
	)
	switch cfg.Exporter {
	case "", config.ExporterNone:
		return nil
	case config.ExporterJaeger:
		spanExporter, err = traceExporter.NewJaeger(cfg.JaegerEndpoint)
	case config.ExporterOTLP:
		spanExporter, err = traceExporter.NewOTLP(context.Background(), cfg.OTLPEndpoint)
	default:
		err = fmt.Errorf("unknown otel exporter %q", cfg.Exporter)
	}
	if err != nil {
		return fmt.Errorf("failed initializing the tracer exporter: %w", err)
	}

	tracerProvider, tracerProviderCloseFn, err := ttrace.NewTraceProviderBuilder(cfg.App.Name).
		SetVersion(cfg.App.Version).
		SetExporter(spanExporter).
		Build()
	if err != nil {
		return fmt.Errorf("failed initializing the tracer provider: %w", err)
	}
	a.traceProviderCloseFn = append(a.traceProviderCloseFn, tracerProviderCloseFn)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetTracerProvider(tracerProvider)
	return nil
}
