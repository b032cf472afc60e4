package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/reschedule"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/validate"
)

// Service owns the notification preferences aggregate. All reads and
// writes go through it; the in-memory copy is the source of truth
// between process restarts and is kept consistent with storage by
// rolling back on failed saves.
type Service struct {
	repo        domain.PreferencesRepository
	validator   *validate.Validator
	rescheduler *reschedule.Rescheduler
	debouncer   *reschedule.Debouncer

	mu    sync.Mutex
	prefs *domain.NotificationPreferences
}

func NewService(
	repo domain.PreferencesRepository,
	validator *validate.Validator,
	rescheduler *reschedule.Rescheduler,
	debouncer *reschedule.Debouncer,
) *Service {
	return &Service{
		repo:        repo,
		validator:   validator,
		rescheduler: rescheduler,
		debouncer:   debouncer,
	}
}

// Load returns a copy of the current preferences, falling back to the
// defaults when nothing has been saved yet. The first load populates
// the in-memory aggregate.
func (s *Service) Load(ctx context.Context) (*domain.NotificationPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return prefs.Clone(), nil
}

// UpdateConfig merges the patch into the category's stored config,
// validates the result and persists it. Soft schedule conflicts block
// the save until the caller passes override; they are returned without
// an error so the caller can present them for confirmation.
//
// A successful save triggers a debounced reschedule of the category.
func (s *Service) UpdateConfig(
	ctx context.Context,
	category domain.Category,
	patch *domain.CategoryPatch,
	override bool,
) (*domain.NotificationPreferences, []*domain.ConflictError, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return nil, nil, err
	}

	merged, err := patch.Apply(current, category)
	if err != nil {
		return nil, nil, err
	}

	conflicts, err := s.validator.Check(merged, category)
	if err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 && !override {
		return nil, conflicts, nil
	}

	if err := s.saveLocked(ctx, merged); err != nil {
		return nil, nil, err
	}

	// The snapshot is captured here rather than re-read in the callback:
	// the callback may run inline while s.mu is still held.
	snapshot := merged.Clone()
	s.debouncer.Trigger(category, func() {
		s.rescheduleAsync(snapshot, category, reschedule.TriggerUpdate)
	})

	return merged.Clone(), nil, nil
}

// ToggleCategory flips one category's enabled flag and reconciles the
// sink immediately: off cancels the pending set, on recomputes and
// resubmits it. Sink failures degrade the category but never fail the
// toggle itself.
func (s *Service) ToggleCategory(ctx context.Context, category domain.Category, enabled bool) (*domain.NotificationPreferences, error) {
	if !category.IsValid() {
		return nil, domain.ErrUnknownCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	merged := current.Clone()
	merged.SetEnabled(category, enabled)

	if enabled {
		// Re-enabling must not resurrect an invalid stored config.
		if _, err := s.validator.Check(merged, category); err != nil {
			return nil, err
		}
	}

	if err := s.saveLocked(ctx, merged); err != nil {
		return nil, err
	}

	if enabled {
		if err := s.rescheduler.Reschedule(ctx, merged.Clone(), category, reschedule.TriggerToggle); err != nil {
			slog.WarnContext(ctx, "reschedule after toggle failed",
				slog.String("category", string(category)),
				slog.String("error", err.Error()),
			)
		}
	} else {
		if _, err := s.rescheduler.CancelCategory(ctx, category); err != nil {
			slog.WarnContext(ctx, "cancel after toggle failed",
				slog.String("category", string(category)),
				slog.String("error", err.Error()),
			)
		}
	}

	return merged.Clone(), nil
}

// Resync reconciles the sink with the stored preferences. Called once
// at startup so a crashed or killed process never leaves stale
// reminders pending.
func (s *Service) Resync(ctx context.Context) error {
	s.mu.Lock()
	prefs, err := s.loadLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := prefs.Clone()
	s.mu.Unlock()

	return s.rescheduler.ResyncAll(ctx, snapshot)
}

// RunPeriodicResync reconciles the sink every interval until ctx is
// cancelled. The planning horizon is finite; a device with no settings
// activity would otherwise run out of scheduled reminders once the
// horizon passes.
func (s *Service) RunPeriodicResync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Resync(ctx); err != nil {
				slog.Warn("periodic resync finished with failures",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// loadLocked returns the cached aggregate, reading through to storage
// on first use. Callers hold s.mu.
func (s *Service) loadLocked(ctx context.Context) (*domain.NotificationPreferences, error) {
	if s.prefs != nil {
		return s.prefs, nil
	}

	prefs, err := s.repo.LoadPreferences(ctx)
	switch {
	case errors.Is(err, domain.ErrPreferencesNotFound):
		prefs = domain.DefaultPreferences()
	case err != nil:
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	s.prefs = prefs
	return s.prefs, nil
}

// saveLocked persists merged and swaps the in-memory aggregate only on
// success, so a failed write leaves the previous state observable.
func (s *Service) saveLocked(ctx context.Context, merged *domain.NotificationPreferences) error {
	if err := s.repo.SavePreferences(ctx, merged); err != nil {
		return &domain.PersistenceError{Err: err}
	}
	s.prefs = merged
	return nil
}

// rescheduleAsync runs a debounced reschedule outside the caller's
// request context. Failures degrade the category and are logged; the
// settings write already succeeded.
func (s *Service) rescheduleAsync(snapshot *domain.NotificationPreferences, category domain.Category, trigger string) {
	if err := s.rescheduler.Reschedule(context.Background(), snapshot, category, trigger); err != nil {
		slog.Warn("debounced reschedule failed",
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
	}
}
