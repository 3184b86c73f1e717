// Package trace exports launch runs to an OTLP endpoint: one root span per
// mode run, one child span per step with its outcome. Export is enabled only
// when OTEL_EXPORTER_OTLP_ENDPOINT is set; otherwise every call is a no-op.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"turbineup/internal/launch"
)

// Exporter exports completed launch reports to an OTLP endpoint.
// A nil *Exporter is valid and discards everything.
type Exporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Returns nil, nil when the endpoint is not configured.
func NewExporter(ctx context.Context) (*Exporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "turbineup"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Exporter{
		provider: provider,
		tracer:   provider.Tracer("turbineup/launch"),
	}, nil
}

// ExportReport exports one launch run: a root span spanning the whole
// sequence, with a child span per step. Step spans carry the step outcome;
// precise per-step timings are not recorded, so children share the run's
// start time and zero duration.
func (e *Exporter) ExportReport(ctx context.Context, rep *launch.Report) error {
	if e == nil || rep == nil {
		return nil
	}

	rootCtx, root := e.tracer.Start(ctx, "launch "+rep.Mode.Title(),
		oteltrace.WithTimestamp(rep.Started),
	)
	root.SetAttributes(
		attribute.Int("turbineup.mode", int(rep.Mode)),
		attribute.Bool("turbineup.fatal", rep.Fatal),
		attribute.Int("turbineup.steps", len(rep.Steps)),
	)

	for _, step := range rep.Steps {
		_, span := e.tracer.Start(rootCtx, step.Name,
			oteltrace.WithTimestamp(rep.Started),
		)
		span.SetAttributes(
			attribute.String("turbineup.step.status", string(step.Status)),
			attribute.String("turbineup.step.detail", step.Detail),
		)
		span.End(oteltrace.WithTimestamp(rep.Started))
	}

	root.End(oteltrace.WithTimestamp(rep.Finished))
	return nil
}

// Shutdown flushes and closes the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
