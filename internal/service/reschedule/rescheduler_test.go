package reschedule

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/notifysink"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/workoutplan"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/schedule"
)

var fixedNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

type captureRecorder struct {
	mu      sync.Mutex
	records []domain.RescheduleRecord
}

func (c *captureRecorder) RecordReschedule(_ context.Context, record domain.RescheduleRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
	return nil
}

func (c *captureRecorder) Flush(_ context.Context) error { return nil }
func (c *captureRecorder) Close() error                  { return nil }

func (c *captureRecorder) last(t *testing.T) domain.RescheduleRecord {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) == 0 {
		t.Fatal("no reschedule records captured")
	}
	return c.records[len(c.records)-1]
}

func newTestRescheduler(sink notifysink.Sink, workouts workoutplan.Repository, recorder domain.RescheduleRecorder) *Rescheduler {
	computer := schedule.NewComputer(schedule.Options{
		HorizonDays:     2,
		ProgressWeekday: time.Sunday,
		ProgressTime:    domain.MustTimeOfDay("19:00"),
		WaterFrontLoad:  0.4,
	})
	r := NewRescheduler(computer, workouts, sink, recorder, nil)
	r.now = func() time.Time { return fixedNow }
	return r
}

func TestReschedule_ReplacesCategorySet(t *testing.T) {
	ctx := context.Background()
	sink := notifysink.NewMemorySink(0)

	// Stale water entry plus an entry from another category.
	mustSchedule(t, sink, "water:stale-01", fixedNow.Add(time.Hour))
	mustSchedule(t, sink, "meals:20260825-dinner", fixedNow.Add(7*time.Hour))

	recorder := &captureRecorder{}
	r := newTestRescheduler(sink, nil, recorder)

	prefs := domain.DefaultPreferences()
	if err := r.Reschedule(ctx, prefs, domain.CategoryWater, TriggerUpdate); err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}

	for _, e := range sink.Pending() {
		if e.ID == "water:stale-01" {
			t.Error("stale water entry survived the reschedule")
		}
	}
	if sink.PendingWithPrefix("meals:") != 1 {
		t.Error("unrelated category entry was removed")
	}
	if got := sink.PendingWithPrefix("water:"); got == 0 {
		t.Error("no water entries submitted")
	}

	record := recorder.last(t)
	if record.Cancelled != 1 {
		t.Errorf("record.Cancelled = %d, want 1", record.Cancelled)
	}
	if record.Degraded || record.Rejected != 0 {
		t.Errorf("record = %+v, want clean result", record)
	}
	if r.Degraded(domain.CategoryWater) {
		t.Error("category flagged degraded after clean reschedule")
	}
}

func TestReschedule_Idempotent(t *testing.T) {
	ctx := context.Background()
	sink := notifysink.NewMemorySink(0)
	r := newTestRescheduler(sink, nil, &captureRecorder{})

	prefs := domain.DefaultPreferences()
	if err := r.Reschedule(ctx, prefs, domain.CategoryWater, TriggerUpdate); err != nil {
		t.Fatalf("first Reschedule() error: %v", err)
	}
	first := sink.Pending()

	if err := r.Reschedule(ctx, prefs, domain.CategoryWater, TriggerUpdate); err != nil {
		t.Fatalf("second Reschedule() error: %v", err)
	}
	second := sink.Pending()

	if len(first) != len(second) {
		t.Fatalf("entry count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entry %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestReschedule_PartialOnCapacity(t *testing.T) {
	ctx := context.Background()
	sink := notifysink.NewMemorySink(5)
	recorder := &captureRecorder{}
	r := newTestRescheduler(sink, nil, recorder)

	prefs := domain.DefaultPreferences()
	prefs.Water.DailyGoalLiters = 3

	err := r.Reschedule(ctx, prefs, domain.CategoryWater, TriggerUpdate)

	var partial *domain.PartialScheduleError
	if !errors.As(err, &partial) {
		t.Fatalf("Reschedule() error = %v, want PartialScheduleError", err)
	}
	if partial.Accepted != 5 {
		t.Errorf("partial.Accepted = %d, want 5", partial.Accepted)
	}
	if !errors.Is(err, notifysink.ErrCapacityExceeded) {
		t.Errorf("partial error does not wrap ErrCapacityExceeded: %v", err)
	}

	if got := sink.PendingWithPrefix("water:"); got != 5 {
		t.Errorf("sink holds %d water entries, want 5", got)
	}
	if !r.Degraded(domain.CategoryWater) {
		t.Error("category not flagged degraded after partial submission")
	}

	record := recorder.last(t)
	if !record.Degraded || record.Submitted != 5 {
		t.Errorf("record = %+v, want degraded with 5 submitted", record)
	}

	// Accepted entries fire earliest: submission is in fire-time order
	// and stops at the first rejection.
	entries := sink.Pending()
	for i := 1; i < len(entries); i++ {
		if entries[i].FireAt.Before(entries[0].FireAt) {
			t.Error("a later entry fires before the first accepted one")
		}
	}
}

func TestReschedule_SinkUnavailable(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	sink := notifysink.NewMockSink(ctrl)
	sink.EXPECT().IsAvailable(gomock.Any()).Return(false)

	recorder := &captureRecorder{}
	r := newTestRescheduler(sink, nil, recorder)

	prefs := domain.DefaultPreferences()
	if err := r.Reschedule(ctx, prefs, domain.CategoryWater, TriggerUpdate); err != nil {
		t.Fatalf("Reschedule() error = %v, want nil when sink is offline", err)
	}

	record := recorder.last(t)
	if record.SinkOnline {
		t.Error("record.SinkOnline = true, want false")
	}
	if !r.Degraded(domain.CategoryWater) {
		t.Error("category not flagged degraded while sink is offline")
	}
}

func TestReschedule_WorkoutPlanUnreachable(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	workouts := workoutplan.NewMockRepository(ctrl)
	workouts.EXPECT().
		GetOccurrences(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	sink := notifysink.NewMemorySink(0)
	r := newTestRescheduler(sink, workouts, &captureRecorder{})

	prefs := domain.DefaultPreferences()
	err := r.Reschedule(ctx, prefs, domain.CategoryWorkout, TriggerResync)
	if err == nil {
		t.Fatal("Reschedule() = nil error, want workout fetch failure")
	}
	if !r.Degraded(domain.CategoryWorkout) {
		t.Error("workout category not flagged degraded")
	}
	if got := sink.PendingWithPrefix("workout:"); got != 0 {
		t.Errorf("sink holds %d workout entries, want 0", got)
	}
}

func TestReschedule_WorkoutMapsOccurrences(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	workouts := workoutplan.NewMockRepository(ctrl)
	workouts.EXPECT().
		GetOccurrences(gomock.Any(), fixedNow, fixedNow.Add(48*time.Hour)).
		Return([]domain.WorkoutOccurrence{
			{WorkoutID: "w-legs", StartAt: fixedNow.Add(4 * time.Hour)},
		}, nil)

	sink := notifysink.NewMemorySink(0)
	r := newTestRescheduler(sink, workouts, &captureRecorder{})

	prefs := domain.DefaultPreferences()
	if err := r.Reschedule(ctx, prefs, domain.CategoryWorkout, TriggerResync); err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}

	entries := sink.Pending()
	if len(entries) != 1 {
		t.Fatalf("sink holds %d entries, want 1", len(entries))
	}
	if entries[0].ID != "workout:w-legs" {
		t.Errorf("entry ID = %s, want workout:w-legs", entries[0].ID)
	}
	want := fixedNow.Add(4*time.Hour - 30*time.Minute)
	if !entries[0].FireAt.Equal(want) {
		t.Errorf("entry fires at %v, want %v", entries[0].FireAt, want)
	}
}

func TestCancelCategory(t *testing.T) {
	ctx := context.Background()
	sink := notifysink.NewMemorySink(0)
	mustSchedule(t, sink, "sleep:20260825-bedtime", fixedNow.Add(10*time.Hour))
	mustSchedule(t, sink, "sleep:20260825-winddown", fixedNow.Add(9*time.Hour))
	mustSchedule(t, sink, "water:20260825-07", fixedNow.Add(time.Hour))

	r := newTestRescheduler(sink, nil, &captureRecorder{})

	cancelled, err := r.CancelCategory(ctx, domain.CategorySleep)
	if err != nil {
		t.Fatalf("CancelCategory() error: %v", err)
	}
	if cancelled != 2 {
		t.Errorf("CancelCategory() = %d, want 2", cancelled)
	}
	if sink.PendingWithPrefix("sleep:") != 0 {
		t.Error("sleep entries remain after cancel")
	}
	if sink.PendingWithPrefix("water:") != 1 {
		t.Error("water entries were removed by a sleep cancel")
	}
}

func TestResyncAll_ReconcilesSink(t *testing.T) {
	ctx := context.Background()
	sink := notifysink.NewMemorySink(0)

	// Stale entry for a disabled category must be swept.
	mustSchedule(t, sink, "sleep:20260820-bedtime", fixedNow.Add(-5*24*time.Hour))

	r := newTestRescheduler(sink, nil, &captureRecorder{})

	prefs := domain.DefaultPreferences()
	if prefs.Sleep.Enabled {
		t.Fatal("default preferences unexpectedly enable sleep")
	}

	if err := r.ResyncAll(ctx, prefs); err != nil {
		t.Fatalf("ResyncAll() error: %v", err)
	}

	if sink.PendingWithPrefix("sleep:") != 0 {
		t.Error("stale sleep entry survived resync")
	}
	// Progress is enabled but its next Sunday instant sits beyond the
	// two-day horizon from a Tuesday, so only daily categories appear.
	for _, prefix := range []string{"water:", "meals:"} {
		if sink.PendingWithPrefix(prefix) == 0 {
			t.Errorf("no %s entries after resync", strings.TrimSuffix(prefix, ":"))
		}
	}
}

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(domain.CategoryWater, func() { runs.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("debounced function ran %d times, want 1", got)
	}
}

func TestDebouncer_ZeroDelayRunsInline(t *testing.T) {
	d := NewDebouncer(0)

	ran := false
	d.Trigger(domain.CategoryWater, func() { ran = true })
	if !ran {
		t.Error("zero-delay trigger did not run inline")
	}
}

func mustSchedule(t *testing.T, sink *notifysink.MemorySink, id string, fireAt time.Time) {
	t.Helper()
	err := sink.Schedule(context.Background(), &notifysink.Entry{ID: id, FireAt: fireAt, PayloadKey: "test"})
	if err != nil {
		t.Fatalf("seed entry %s: %v", id, err)
	}
}
