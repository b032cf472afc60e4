package reschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/notifysink"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/workoutplan"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/tracing"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/schedule"
)

// Reschedule triggers, recorded with every outcome.
const (
	TriggerUpdate = "update"
	TriggerToggle = "toggle"
	TriggerResync = "resync"
)

// Rescheduler replaces a category's pending reminder set in the sink.
// Each category is serialized: cancel-then-submit for one category never
// interleaves with another reschedule of the same category.
type Rescheduler struct {
	computer *schedule.Computer
	workouts workoutplan.Repository
	sink     notifysink.Sink
	recorder domain.RescheduleRecorder
	metrics  *metrics.SchedulerMetrics
	now      func() time.Time

	locks map[domain.Category]*sync.Mutex

	mu       sync.Mutex
	degraded map[domain.Category]bool

	offlineOnce sync.Once
}

func NewRescheduler(
	computer *schedule.Computer,
	workouts workoutplan.Repository,
	sink notifysink.Sink,
	recorder domain.RescheduleRecorder,
	schedulerMetrics *metrics.SchedulerMetrics,
) *Rescheduler {
	locks := make(map[domain.Category]*sync.Mutex, len(domain.Categories))
	for _, c := range domain.Categories {
		locks[c] = &sync.Mutex{}
	}

	return &Rescheduler{
		computer: computer,
		workouts: workouts,
		sink:     sink,
		recorder: recorder,
		metrics:  schedulerMetrics,
		now:      time.Now,
		locks:    locks,
		degraded: make(map[domain.Category]bool),
	}
}

// Reschedule cancels every pending reminder of the category and submits
// the freshly computed set. On a sink rejection mid-submission the
// already accepted entries stay scheduled, the category is flagged
// degraded, and a PartialScheduleError is returned.
//
// When the sink is unavailable the reschedule is skipped entirely and
// nil is returned; preference changes must not fail on an offline sink.
func (r *Rescheduler) Reschedule(ctx context.Context, prefs *domain.NotificationPreferences, category domain.Category, trigger string) error {
	lock, ok := r.locks[category]
	if !ok {
		return domain.ErrUnknownCategory
	}
	lock.Lock()
	defer lock.Unlock()

	if !r.sink.IsAvailable(ctx) {
		r.reportOffline(ctx)
		r.setDegraded(category, true)
		r.record(ctx, domain.RescheduleRecord{
			Category:   category,
			Trigger:    trigger,
			StartedAt:  r.now(),
			Degraded:   true,
			SinkOnline: false,
		})
		return nil
	}

	ctx, span := tracing.StartRescheduleSpan(ctx, string(category), trigger)
	defer span.End()

	start := r.now()
	record := domain.RescheduleRecord{
		Category:   category,
		Trigger:    trigger,
		StartedAt:  start,
		SinkOnline: true,
	}

	cancelled, err := r.sink.CancelByPrefix(ctx, category.IDPrefix())
	if err != nil {
		r.setDegraded(category, true)
		record.Degraded = true
		r.finish(ctx, span, record, "cancel_failed", err)
		return fmt.Errorf("cancel pending %s reminders: %w", category, err)
	}
	record.Cancelled = cancelled

	var occurrences []domain.WorkoutOccurrence
	if prefs.Enabled(category) {
		occurrences, err = r.fetchOccurrences(ctx, category)
	}
	if err != nil {
		r.setDegraded(category, true)
		record.Degraded = true
		r.finish(ctx, span, record, "plan_fetch_failed", err)
		return fmt.Errorf("fetch workout occurrences: %w", err)
	}

	reminders := r.computer.Compute(prefs, category, occurrences, r.now())

	submitted, submitErr := r.submit(ctx, reminders)
	record.Submitted = submitted
	record.Rejected = len(reminders) - submitted

	if submitErr != nil {
		r.setDegraded(category, true)
		record.Degraded = true
		partial := &domain.PartialScheduleError{
			Category: category,
			Accepted: submitted,
			Rejected: len(reminders) - submitted,
			Err:      submitErr,
		}
		r.finish(ctx, span, record, "partial", partial)
		return partial
	}

	r.setDegraded(category, false)
	r.finish(ctx, span, record, "ok", nil)
	return nil
}

// CancelCategory removes every pending reminder of the category without
// submitting replacements. Used when a category is toggled off.
func (r *Rescheduler) CancelCategory(ctx context.Context, category domain.Category) (int, error) {
	lock, ok := r.locks[category]
	if !ok {
		return 0, domain.ErrUnknownCategory
	}
	lock.Lock()
	defer lock.Unlock()

	if !r.sink.IsAvailable(ctx) {
		r.reportOffline(ctx)
		return 0, nil
	}

	ctx, span := tracing.StartSinkOperationSpan(ctx, "cancel_by_prefix")
	defer span.End()

	cancelled, err := r.sink.CancelByPrefix(ctx, category.IDPrefix())
	if err != nil {
		return 0, fmt.Errorf("cancel pending %s reminders: %w", category, err)
	}

	if r.metrics != nil {
		r.metrics.RecordCancellations(ctx, string(category), cancelled)
	}
	r.setDegraded(category, false)

	slog.InfoContext(ctx, "category reminders cancelled",
		slog.String("category", string(category)),
		slog.Int("cancelled", cancelled),
	)
	return cancelled, nil
}

// ResyncAll reconciles the sink with the stored preferences: enabled
// categories are rescheduled, disabled ones are swept clean. Failures
// are collected so one broken category never blocks the others.
func (r *Rescheduler) ResyncAll(ctx context.Context, prefs *domain.NotificationPreferences) error {
	var errs []error
	for _, category := range domain.Categories {
		if prefs.Enabled(category) {
			if err := r.Reschedule(ctx, prefs, category, TriggerResync); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if _, err := r.CancelCategory(ctx, category); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Degraded reports whether the category's last reschedule left the sink
// state incomplete.
func (r *Rescheduler) Degraded(category domain.Category) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded[category]
}

// DegradedCategories returns the categories currently flagged degraded,
// in the canonical category order.
func (r *Rescheduler) DegradedCategories() []domain.Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Category
	for _, c := range domain.Categories {
		if r.degraded[c] {
			out = append(out, c)
		}
	}
	return out
}

func (r *Rescheduler) fetchOccurrences(ctx context.Context, category domain.Category) ([]domain.WorkoutOccurrence, error) {
	if category != domain.CategoryWorkout || r.workouts == nil {
		return nil, nil
	}

	start := r.now()
	end := r.computer.HorizonEnd(start)

	ctx, span := tracing.StartWorkoutFetchSpan(ctx, start, end)
	defer span.End()

	return r.workouts.GetOccurrences(ctx, start, end)
}

// submit pushes reminders in fire-time order and stops at the first
// rejection so the earliest reminders survive a capacity limit.
func (r *Rescheduler) submit(ctx context.Context, reminders []domain.ScheduledReminder) (int, error) {
	for i, reminder := range reminders {
		entry := &notifysink.Entry{
			ID:         reminder.ID(),
			FireAt:     reminder.FireAt,
			PayloadKey: reminder.PayloadKey,
		}
		if err := r.sink.Schedule(ctx, entry); err != nil {
			return i, err
		}
	}
	return len(reminders), nil
}

func (r *Rescheduler) finish(ctx context.Context, span trace.Span, record domain.RescheduleRecord, outcome string, err error) {
	record.Duration = r.now().Sub(record.StartedAt)

	tracing.RecordRescheduleResult(span, record.Cancelled, record.Submitted, record.Rejected, err)

	if r.metrics != nil {
		r.metrics.RecordReschedule(ctx, string(record.Category), record.Trigger, outcome)
		r.metrics.RecordSubmissions(ctx, string(record.Category), record.Submitted, record.Rejected)
		r.metrics.RecordCancellations(ctx, string(record.Category), record.Cancelled)
		r.metrics.RecordRescheduleDuration(ctx, string(record.Category), record.Duration)
	}

	r.record(ctx, record)

	attrs := []any{
		slog.String("category", string(record.Category)),
		slog.String("trigger", record.Trigger),
		slog.String("outcome", outcome),
		slog.Int("cancelled", record.Cancelled),
		slog.Int("submitted", record.Submitted),
		slog.Int("rejected", record.Rejected),
		slog.Duration("duration", record.Duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		slog.WarnContext(ctx, "reschedule finished degraded", attrs...)
		return
	}
	slog.InfoContext(ctx, "reschedule finished", attrs...)
}

func (r *Rescheduler) record(ctx context.Context, record domain.RescheduleRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordReschedule(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record reschedule result",
			slog.String("category", string(record.Category)),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Rescheduler) reportOffline(ctx context.Context) {
	r.offlineOnce.Do(func() {
		slog.WarnContext(ctx, "notification sink unavailable, reminder submission disabled",
			slog.String("event", "sink.offline"),
		)
	})
}

func (r *Rescheduler) setDegraded(category domain.Category, degraded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded[category] = degraded
}
