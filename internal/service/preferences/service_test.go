package preferences

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/notifysink"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/schedrecorder"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/reschedule"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/schedule"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/validate"
)

func newTestService(t *testing.T, repo domain.PreferencesRepository) (*Service, *notifysink.MemorySink) {
	t.Helper()

	sink := notifysink.NewMemorySink(0)
	computer := schedule.NewComputer(schedule.Options{
		HorizonDays:     2,
		ProgressWeekday: time.Sunday,
		ProgressTime:    domain.MustTimeOfDay("19:00"),
		WaterFrontLoad:  0.4,
	})
	rescheduler := reschedule.NewRescheduler(computer, nil, sink, schedrecorder.NewNoopRecorder(), nil)

	// Zero delay keeps reschedules synchronous in tests.
	svc := NewService(repo, validate.NewValidator(), rescheduler, reschedule.NewDebouncer(0))
	return svc, sink
}

func TestLoad_DefaultsWhenUnsaved(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)

	svc, _ := newTestService(t, repo)

	prefs, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !prefs.Water.Enabled || prefs.Water.DailyGoalLiters != 4 {
		t.Errorf("Load() = %+v, want water defaults", prefs.Water)
	}

	// Second load is served from memory; the single EXPECT above fails
	// the test if the repository is hit again.
	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
}

func TestUpdateConfig_SavesAndReschedules(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)

	var saved *domain.NotificationPreferences
	repo.EXPECT().SavePreferences(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prefs *domain.NotificationPreferences) error {
			saved = prefs.Clone()
			return nil
		})

	svc, sink := newTestService(t, repo)

	goal := 3.0
	patch := &domain.CategoryPatch{Water: &domain.WaterPatch{DailyGoalLiters: &goal}}

	updated, conflicts, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false)
	if err != nil {
		t.Fatalf("UpdateConfig() error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("UpdateConfig() conflicts = %v, want none", conflicts)
	}
	if updated.Water.DailyGoalLiters != 3 {
		t.Errorf("updated goal = %v, want 3", updated.Water.DailyGoalLiters)
	}
	if saved == nil || saved.Water.DailyGoalLiters != 3 {
		t.Error("merged preferences were not persisted")
	}
	if sink.PendingWithPrefix("water:") == 0 {
		t.Error("no water reminders submitted after update")
	}
}

func TestUpdateConfig_CompletesWithInlineDebounce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)
	repo.EXPECT().SavePreferences(gomock.Any(), gomock.Any()).Return(nil)

	// Zero-delay debouncers run the reschedule inline while UpdateConfig
	// still holds the service lock; the call must not block on itself.
	svc, sink := newTestService(t, repo)

	goal := 2.0
	patch := &domain.CategoryPatch{Water: &domain.WaterPatch{DailyGoalLiters: &goal}}

	done := make(chan error, 1)
	go func() {
		_, _, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("UpdateConfig() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("UpdateConfig() did not return with an inline debounce")
	}

	if sink.PendingWithPrefix("water:") == 0 {
		t.Error("inline reschedule submitted no water reminders")
	}
	if _, err := svc.Load(ctx); err != nil {
		t.Fatalf("Load() after update error: %v", err)
	}
}

func TestRunPeriodicResync_RefillsSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)

	svc, sink := newTestService(t, repo)

	// A stale entry left behind by a previous process must be swept by
	// the first tick.
	mustSeed(t, sink, &notifysink.Entry{ID: "water:stale", FireAt: time.Now().Add(-time.Hour), PayloadKey: "water.hydrate"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.RunPeriodicResync(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if sink.PendingWithPrefix("water:") > 0 && !sinkHolds(sink, "water:stale") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("periodic resync never reconciled the sink")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func mustSeed(t *testing.T, sink *notifysink.MemorySink, entry *notifysink.Entry) {
	t.Helper()
	if err := sink.Schedule(context.Background(), entry); err != nil {
		t.Fatalf("failed to seed sink entry %s: %v", entry.ID, err)
	}
}

func sinkHolds(sink *notifysink.MemorySink, id string) bool {
	for _, entry := range sink.Pending() {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func TestUpdateConfig_RejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)

	svc, sink := newTestService(t, repo)

	t.Run("malformed time", func(t *testing.T) {
		bad := "25:77"
		patch := &domain.CategoryPatch{Water: &domain.WaterPatch{WakeUpTime: &bad}}

		_, _, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false)
		var invalid *domain.InvalidFormatError
		if !errors.As(err, &invalid) {
			t.Fatalf("UpdateConfig() error = %v, want InvalidFormatError", err)
		}
	})

	t.Run("goal out of range", func(t *testing.T) {
		goal := 15.0
		patch := &domain.CategoryPatch{Water: &domain.WaterPatch{DailyGoalLiters: &goal}}

		_, _, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false)
		var oor *domain.OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("UpdateConfig() error = %v, want OutOfRangeError", err)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		patch := &domain.CategoryPatch{Water: &domain.WaterPatch{}}

		_, _, err := svc.UpdateConfig(ctx, domain.CategorySleep, patch, false)
		if !errors.Is(err, domain.ErrEmptyPatch) {
			t.Fatalf("UpdateConfig() error = %v, want ErrEmptyPatch", err)
		}
	})

	// No SavePreferences expectation was registered: a rejected update
	// must never touch storage or the sink.
	if n, _ := sink.CountPending(ctx); n != 0 {
		t.Errorf("sink holds %d entries after rejected updates, want 0", n)
	}
}

func TestUpdateConfig_ConflictNeedsOverride(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)
	repo.EXPECT().SavePreferences(gomock.Any(), gomock.Any()).Return(nil)

	svc, _ := newTestService(t, repo)

	wake := "23:30"
	sleep := "22:00"
	patch := &domain.CategoryPatch{Water: &domain.WaterPatch{WakeUpTime: &wake, SleepTime: &sleep}}

	_, conflicts, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false)
	if err != nil {
		t.Fatalf("UpdateConfig() error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("UpdateConfig() conflicts = %v, want exactly one", conflicts)
	}

	// Same patch with the override confirmed goes through.
	updated, conflicts, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, true)
	if err != nil {
		t.Fatalf("UpdateConfig() with override error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("override still returned conflicts: %v", conflicts)
	}
	if updated.Water.WakeUpTime.String() != "23:30" {
		t.Errorf("wake-up time = %s, want 23:30", updated.Water.WakeUpTime)
	}
}

func TestUpdateConfig_RollsBackOnPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)
	repo.EXPECT().SavePreferences(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc, _ := newTestService(t, repo)

	goal := 2.0
	patch := &domain.CategoryPatch{Water: &domain.WaterPatch{DailyGoalLiters: &goal}}

	_, _, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false)
	var persistence *domain.PersistenceError
	if !errors.As(err, &persistence) {
		t.Fatalf("UpdateConfig() error = %v, want PersistenceError", err)
	}

	prefs, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if prefs.Water.DailyGoalLiters != 4 {
		t.Errorf("goal after failed save = %v, want original 4", prefs.Water.DailyGoalLiters)
	}
}

func TestToggleCategory_OffCancelsOnRestores(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)
	repo.EXPECT().LoadPreferences(gomock.Any()).Return(nil, domain.ErrPreferencesNotFound)
	repo.EXPECT().SavePreferences(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc, sink := newTestService(t, repo)

	goal := 3.0
	patch := &domain.CategoryPatch{Water: &domain.WaterPatch{DailyGoalLiters: &goal}}
	if _, _, err := svc.UpdateConfig(ctx, domain.CategoryWater, patch, false); err != nil {
		t.Fatalf("UpdateConfig() error: %v", err)
	}
	before := sink.Pending()
	if len(before) == 0 {
		t.Fatal("no entries scheduled before toggle")
	}

	prefs, err := svc.ToggleCategory(ctx, domain.CategoryWater, false)
	if err != nil {
		t.Fatalf("ToggleCategory(off) error: %v", err)
	}
	if prefs.Water.Enabled {
		t.Error("water still enabled after toggle off")
	}
	if sink.PendingWithPrefix("water:") != 0 {
		t.Error("water entries remain after toggle off")
	}

	prefs, err = svc.ToggleCategory(ctx, domain.CategoryWater, true)
	if err != nil {
		t.Fatalf("ToggleCategory(on) error: %v", err)
	}
	if !prefs.Water.Enabled {
		t.Error("water still disabled after toggle on")
	}

	after := sink.Pending()
	if len(after) != len(before) {
		t.Fatalf("toggle on restored %d entries, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Errorf("entry %d ID changed across toggle: %s vs %s", i, before[i].ID, after[i].ID)
		}
	}
}

func TestToggleCategory_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := domain.NewMockPreferencesRepository(ctrl)

	svc, _ := newTestService(t, repo)

	if _, err := svc.ToggleCategory(ctx, domain.Category("bogus"), true); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("ToggleCategory() error = %v, want ErrUnknownCategory", err)
	}
}
