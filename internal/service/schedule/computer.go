package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

// Options are the schedule tunables, mapped from configuration in cmd.
type Options struct {
	HorizonDays     int
	ProgressWeekday time.Weekday
	ProgressTime    domain.TimeOfDay
	// WaterFrontLoad in [0, 1) biases water reminders toward the start
	// of the awake window. 0 means evenly spaced.
	WaterFrontLoad float64
}

// Computer derives concrete reminder instants from configuration. Pure
// and deterministic given (config, now): no clocks, no I/O.
type Computer struct {
	opts Options
}

func NewComputer(opts Options) *Computer {
	if opts.HorizonDays < 1 {
		opts.HorizonDays = 1
	}
	return &Computer{opts: opts}
}

// HorizonEnd returns the exclusive end of the planning window.
func (c *Computer) HorizonEnd(now time.Time) time.Time {
	return now.Add(time.Duration(c.opts.HorizonDays) * 24 * time.Hour)
}

// Compute returns the full future reminder set for one category, ordered
// by fire time. A disabled category yields nil. Workout occurrences are
// only consulted for the workout category.
func (c *Computer) Compute(
	prefs *domain.NotificationPreferences,
	category domain.Category,
	occurrences []domain.WorkoutOccurrence,
	now time.Time,
) []domain.ScheduledReminder {
	if !prefs.Enabled(category) {
		return nil
	}

	var reminders []domain.ScheduledReminder
	switch category {
	case domain.CategoryWater:
		reminders = c.computeWater(&prefs.Water, now)
	case domain.CategoryWorkout:
		reminders = c.computeWorkout(&prefs.Workout, occurrences, now)
	case domain.CategoryMeals:
		reminders = c.computeMeals(&prefs.Meals, now)
	case domain.CategorySleep:
		reminders = c.computeSleep(&prefs.Sleep, now)
	case domain.CategoryProgress:
		reminders = c.computeProgress(now)
	}

	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].FireAt.Equal(reminders[j].FireAt) {
			return reminders[i].SubID < reminders[j].SubID
		}
		return reminders[i].FireAt.Before(reminders[j].FireAt)
	})

	return reminders
}

const dayKeyFormat = "20060102"

// computeWater spreads the day's reminders across the awake window with
// a front-loaded density: the first two thirds of the window (morning
// and afternoon) receive more reminders than the final third. Positions
// are midpoint samples of the inverse CDF of the linearly decaying
// density f(x) = 1 + k(1-2x) over the normalized window.
func (c *Computer) computeWater(cfg *domain.WaterConfig, now time.Time) []domain.ScheduledReminder {
	count := WaterReminderCount(cfg.DailyGoalLiters)
	if count == 0 {
		return nil
	}

	awake := domain.MinutesBetween(cfg.WakeUpTime, cfg.SleepTime)
	end := c.HorizonEnd(now)

	var out []domain.ScheduledReminder
	for day := 0; day <= c.opts.HorizonDays; day++ {
		base := cfg.WakeUpTime.At(now.AddDate(0, 0, day))
		dayKey := base.Format(dayKeyFormat)

		for i := 0; i < count; i++ {
			q := (float64(i) + 0.5) / float64(count)
			offset := time.Duration(math.Round(c.waterPosition(q)*float64(awake))) * time.Minute
			fireAt := base.Add(offset)

			if !fireAt.After(now) || !fireAt.Before(end) {
				continue
			}

			out = append(out, domain.NewScheduledReminder(
				domain.CategoryWater,
				fmt.Sprintf("%s-%02d", dayKey, i),
				fireAt,
				"water.drink",
			))
		}
	}
	return out
}

// waterPosition maps a quantile q in (0,1) to a normalized position in
// the awake window by inverting F(x) = (1+k)x - kx².
func (c *Computer) waterPosition(q float64) float64 {
	k := c.opts.WaterFrontLoad
	if k == 0 {
		return q
	}
	return ((1 + k) - math.Sqrt((1+k)*(1+k)-4*k*q)) / (2 * k)
}

func (c *Computer) computeMeals(cfg *domain.MealsConfig, now time.Time) []domain.ScheduledReminder {
	slots := []struct {
		name string
		slot *domain.MealSlot
	}{
		{"breakfast", &cfg.Breakfast},
		{"lunch", &cfg.Lunch},
		{"dinner", &cfg.Dinner},
	}

	end := c.HorizonEnd(now)

	var out []domain.ScheduledReminder
	for day := 0; day <= c.opts.HorizonDays; day++ {
		base := now.AddDate(0, 0, day)
		for _, s := range slots {
			if !s.slot.Enabled {
				continue
			}
			fireAt := s.slot.Time.At(base)
			if !fireAt.After(now) || !fireAt.Before(end) {
				continue
			}
			out = append(out, domain.NewScheduledReminder(
				domain.CategoryMeals,
				fireAt.Format(dayKeyFormat)+"-"+s.name,
				fireAt,
				"meal."+s.name,
			))
		}
	}
	return out
}

// computeSleep emits two reminders per day: a wind-down reminder ahead
// of bedtime and one at bedtime itself.
func (c *Computer) computeSleep(cfg *domain.SleepConfig, now time.Time) []domain.ScheduledReminder {
	lead := time.Duration(cfg.ReminderMinutesBefore) * time.Minute
	end := c.HorizonEnd(now)

	var out []domain.ScheduledReminder
	for day := 0; day <= c.opts.HorizonDays; day++ {
		bedAt := cfg.Bedtime.At(now.AddDate(0, 0, day))
		dayKey := bedAt.Format(dayKeyFormat)

		windDown := bedAt.Add(-lead)
		if windDown.After(now) && windDown.Before(end) {
			out = append(out, domain.NewScheduledReminder(
				domain.CategorySleep,
				dayKey+"-winddown",
				windDown,
				"sleep.winddown",
			))
		}
		if bedAt.After(now) && bedAt.Before(end) {
			out = append(out, domain.NewScheduledReminder(
				domain.CategorySleep,
				dayKey+"-bedtime",
				bedAt,
				"sleep.bedtime",
			))
		}
	}
	return out
}

// computeProgress emits the weekly summary reminder, rolled forward to
// the next configured weekday when this week's instant already passed.
func (c *Computer) computeProgress(now time.Time) []domain.ScheduledReminder {
	end := c.HorizonEnd(now)

	daysAhead := (int(c.opts.ProgressWeekday) - int(now.Weekday()) + 7) % 7
	fireAt := c.opts.ProgressTime.At(now.AddDate(0, 0, daysAhead))
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 7)
	}

	var out []domain.ScheduledReminder
	for ; fireAt.Before(end); fireAt = fireAt.AddDate(0, 0, 7) {
		out = append(out, domain.NewScheduledReminder(
			domain.CategoryProgress,
			fireAt.Format(dayKeyFormat),
			fireAt,
			"progress.weekly",
		))
	}
	return out
}

// computeWorkout maps each planned occurrence to one reminder fired
// ahead of the workout's start. Occurrence times come from the
// workout-plan collaborator; the computer never derives them itself.
func (c *Computer) computeWorkout(cfg *domain.WorkoutConfig, occurrences []domain.WorkoutOccurrence, now time.Time) []domain.ScheduledReminder {
	lead := time.Duration(cfg.ReminderMinutesBefore) * time.Minute
	end := c.HorizonEnd(now)

	var out []domain.ScheduledReminder
	for _, occ := range occurrences {
		fireAt := occ.StartAt.Add(-lead)
		if !fireAt.After(now) || !fireAt.Before(end) {
			continue
		}
		out = append(out, domain.NewScheduledReminder(
			domain.CategoryWorkout,
			occ.WorkoutID,
			fireAt,
			"workout.upcoming",
		))
	}
	return out
}
