package validate

import (
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

// Numeric bounds applied before any configuration is persisted.
const (
	MinDailyGoalLiters = 1.0
	MaxDailyGoalLiters = 10.0

	MinWorkoutLeadMinutes = 5
	MaxWorkoutLeadMinutes = 120

	MinSleepLeadMinutes = 5
	MaxSleepLeadMinutes = 60
)

// Validator checks cross-field invariants on a merged configuration.
// Hard failures (format, range) block the save; soft conflicts are
// returned separately and only block until the caller confirms them.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Check validates the given category's sub-config within prefs. The
// returned error is a hard failure; conflicts are advisory findings the
// caller may override explicitly.
func (v *Validator) Check(prefs *domain.NotificationPreferences, category domain.Category) ([]*domain.ConflictError, error) {
	switch category {
	case domain.CategoryWater:
		return v.checkWater(&prefs.Water)
	case domain.CategoryWorkout:
		return nil, v.checkWorkout(&prefs.Workout)
	case domain.CategoryMeals:
		return nil, v.checkMeals(&prefs.Meals)
	case domain.CategorySleep:
		return nil, v.checkSleep(&prefs.Sleep)
	case domain.CategoryProgress:
		return nil, v.checkProgress(&prefs.Progress)
	}
	return nil, domain.ErrUnknownCategory
}

func (v *Validator) checkWater(cfg *domain.WaterConfig) ([]*domain.ConflictError, error) {
	if err := checkTimeOfDay("water.wake_up_time", cfg.WakeUpTime); err != nil {
		return nil, err
	}
	if err := checkTimeOfDay("water.sleep_time", cfg.SleepTime); err != nil {
		return nil, err
	}
	if cfg.DailyGoalLiters < MinDailyGoalLiters || cfg.DailyGoalLiters > MaxDailyGoalLiters {
		return nil, &domain.OutOfRangeError{
			Field: "water.daily_goal_liters",
			Min:   MinDailyGoalLiters,
			Max:   MaxDailyGoalLiters,
			Value: cfg.DailyGoalLiters,
		}
	}

	// Wake at or after sleep looks inverted, but 00:00 sleep is the
	// next-day-midnight sentinel and is always fine.
	if !cfg.SleepTime.IsMidnight() && cfg.WakeUpTime.Minutes() >= cfg.SleepTime.Minutes() {
		return []*domain.ConflictError{{
			Category: domain.CategoryWater,
			Reason:   "wake-up time is not before sleep time",
		}}, nil
	}

	return nil, nil
}

func (v *Validator) checkWorkout(cfg *domain.WorkoutConfig) error {
	if cfg.ReminderMinutesBefore < MinWorkoutLeadMinutes || cfg.ReminderMinutesBefore > MaxWorkoutLeadMinutes {
		return &domain.OutOfRangeError{
			Field: "workout.reminder_minutes_before",
			Min:   MinWorkoutLeadMinutes,
			Max:   MaxWorkoutLeadMinutes,
			Value: float64(cfg.ReminderMinutesBefore),
		}
	}
	return nil
}

func (v *Validator) checkMeals(cfg *domain.MealsConfig) error {
	slots := []struct {
		field string
		slot  *domain.MealSlot
	}{
		{"meals.breakfast.time", &cfg.Breakfast},
		{"meals.lunch.time", &cfg.Lunch},
		{"meals.dinner.time", &cfg.Dinner},
	}

	for _, s := range slots {
		// Disabled slots keep whatever was stored; only enabled slots
		// must carry a valid time.
		if !s.slot.Enabled {
			continue
		}
		if err := checkTimeOfDay(s.field, s.slot.Time); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) checkSleep(cfg *domain.SleepConfig) error {
	if err := checkTimeOfDay("sleep.bedtime", cfg.Bedtime); err != nil {
		return err
	}
	if cfg.ReminderMinutesBefore < MinSleepLeadMinutes || cfg.ReminderMinutesBefore > MaxSleepLeadMinutes {
		return &domain.OutOfRangeError{
			Field: "sleep.reminder_minutes_before",
			Min:   MinSleepLeadMinutes,
			Max:   MaxSleepLeadMinutes,
			Value: float64(cfg.ReminderMinutesBefore),
		}
	}
	return nil
}

func (v *Validator) checkProgress(cfg *domain.ProgressConfig) error {
	if cfg.Frequency != domain.ProgressWeekly {
		return domain.ErrUnsupportedFrequency
	}
	return nil
}

func checkTimeOfDay(field string, t domain.TimeOfDay) error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return &domain.InvalidFormatError{Field: field, Value: t.String()}
	}
	return nil
}
