package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulerTracerName = "github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/reschedule"

func SchedulerTracer() trace.Tracer {
	return otel.Tracer(schedulerTracerName)
}

func StartRescheduleSpan(ctx context.Context, category, trigger string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.reschedule",
		trace.WithAttributes(
			attribute.String("category", category),
			attribute.String("trigger", trigger),
		),
	)
}

func StartSinkOperationSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.sink."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartWorkoutFetchSpan(ctx context.Context, start, end time.Time) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.workout_plan.fetch",
		trace.WithAttributes(
			attribute.String("window.start", start.Format(time.RFC3339)),
			attribute.String("window.end", end.Format(time.RFC3339)),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordRescheduleResult(span trace.Span, cancelled, submitted, rejected int, err error) {
	span.SetAttributes(
		attribute.Int("reschedule.cancelled_count", cancelled),
		attribute.Int("reschedule.submitted_count", submitted),
		attribute.Int("reschedule.rejected_count", rejected),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
