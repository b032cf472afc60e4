package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "reminder.scheduler"
)

type SchedulerMetrics struct {
	reschedules         metric.Int64Counter
	reminderSubmissions metric.Int64Counter
	cancellations       metric.Int64Counter
	rescheduleDuration  metric.Float64Histogram
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	reschedules, err := meter.Int64Counter(
		"reminder_reschedules_total",
		metric.WithDescription("Total number of category reschedules"),
		metric.WithUnit("{reschedule}"),
	)
	if err != nil {
		return nil, err
	}

	reminderSubmissions, err := meter.Int64Counter(
		"reminder_submissions_total",
		metric.WithDescription("Reminders submitted to the notification sink"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	cancellations, err := meter.Int64Counter(
		"reminder_cancellations_total",
		metric.WithDescription("Pending reminders cancelled before resubmission"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	rescheduleDuration, err := meter.Float64Histogram(
		"reminder_reschedule_duration_seconds",
		metric.WithDescription("Time spent replacing one category's reminder set"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		reschedules:         reschedules,
		reminderSubmissions: reminderSubmissions,
		cancellations:       cancellations,
		rescheduleDuration:  rescheduleDuration,
	}, nil
}

func (m *SchedulerMetrics) RecordReschedule(ctx context.Context, category, trigger, outcome string) {
	m.reschedules.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("trigger", trigger),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordSubmissions(ctx context.Context, category string, accepted, rejected int) {
	if accepted > 0 {
		m.reminderSubmissions.Add(ctx, int64(accepted), metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("outcome", "accepted"),
		))
	}
	if rejected > 0 {
		m.reminderSubmissions.Add(ctx, int64(rejected), metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("outcome", "rejected"),
		))
	}
}

func (m *SchedulerMetrics) RecordCancellations(ctx context.Context, category string, count int) {
	if count <= 0 {
		return
	}
	m.cancellations.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("category", category),
	))
}

func (m *SchedulerMetrics) RecordRescheduleDuration(ctx context.Context, category string, duration time.Duration) {
	m.rescheduleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("category", category),
	))
}
