package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stage wraps a single pipeline stage (geocode, network build, enumerate,
// evaluate, optimize, rank) in its own span, recording success/error status
// the way a server interceptor would for an inbound call.
func Stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := StartSpan(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	span.SetAttributes(attribute.String("pipeline.stage", name))

	err := fn(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// StageValue is Stage for a function that also returns a value, since Go
// forbids type parameters on a bare func wrapper without one.
func StageValue[T any](ctx context.Context, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := StartSpan(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	span.SetAttributes(attribute.String("pipeline.stage", name))

	val, err := fn(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return val, err
	}

	span.SetStatus(codes.Ok, "")
	return val, nil
}
