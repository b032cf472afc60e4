package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

const preferencesKey = "fitmind:notification_preferences"

// Private record structs keep the wire format decoupled from the domain
// aggregate: a renamed domain field must not silently re-shape stored
// data. Times persist as the user-facing "HH:MM" strings.

type preferencesRecord struct {
	Water     waterRecord    `json:"water"`
	Workout   workoutRecord  `json:"workout"`
	Meals     mealsRecord    `json:"meals"`
	Sleep     sleepRecord    `json:"sleep"`
	Progress  progressRecord `json:"progress"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type waterRecord struct {
	Enabled         bool    `json:"enabled"`
	DailyGoalLiters float64 `json:"daily_goal_liters"`
	WakeUpTime      string  `json:"wake_up_time"`
	SleepTime       string  `json:"sleep_time"`
}

type workoutRecord struct {
	Enabled               bool `json:"enabled"`
	ReminderMinutesBefore int  `json:"reminder_minutes_before"`
}

type mealSlotRecord struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

type mealsRecord struct {
	Enabled   bool           `json:"enabled"`
	Breakfast mealSlotRecord `json:"breakfast"`
	Lunch     mealSlotRecord `json:"lunch"`
	Dinner    mealSlotRecord `json:"dinner"`
}

type sleepRecord struct {
	Enabled               bool   `json:"enabled"`
	Bedtime               string `json:"bedtime"`
	ReminderMinutesBefore int    `json:"reminder_minutes_before"`
}

type progressRecord struct {
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"`
}

type preferencesRepository struct {
	client *redis.Client
}

func NewPreferencesRepository(client *redis.Client) domain.PreferencesRepository {
	return &preferencesRepository{
		client: client,
	}
}

func (r *preferencesRepository) LoadPreferences(ctx context.Context) (*domain.NotificationPreferences, error) {
	data, err := r.client.Get(ctx, preferencesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, err
	}

	var record preferencesRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidPreferencesData
	}

	return recordToPreferences(&record)
}

func (r *preferencesRepository) SavePreferences(ctx context.Context, prefs *domain.NotificationPreferences) error {
	if prefs == nil {
		return ErrInvalidPreferencesData
	}

	record := preferencesToRecord(prefs)

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidPreferencesData
	}

	// No TTL: preferences outlive any schedule and are reloaded on
	// every launch.
	return r.client.Set(ctx, preferencesKey, data, 0).Err()
}

func preferencesToRecord(p *domain.NotificationPreferences) *preferencesRecord {
	return &preferencesRecord{
		Water: waterRecord{
			Enabled:         p.Water.Enabled,
			DailyGoalLiters: p.Water.DailyGoalLiters,
			WakeUpTime:      p.Water.WakeUpTime.String(),
			SleepTime:       p.Water.SleepTime.String(),
		},
		Workout: workoutRecord{
			Enabled:               p.Workout.Enabled,
			ReminderMinutesBefore: p.Workout.ReminderMinutesBefore,
		},
		Meals: mealsRecord{
			Enabled:   p.Meals.Enabled,
			Breakfast: mealSlotRecord{Enabled: p.Meals.Breakfast.Enabled, Time: p.Meals.Breakfast.Time.String()},
			Lunch:     mealSlotRecord{Enabled: p.Meals.Lunch.Enabled, Time: p.Meals.Lunch.Time.String()},
			Dinner:    mealSlotRecord{Enabled: p.Meals.Dinner.Enabled, Time: p.Meals.Dinner.Time.String()},
		},
		Sleep: sleepRecord{
			Enabled:               p.Sleep.Enabled,
			Bedtime:               p.Sleep.Bedtime.String(),
			ReminderMinutesBefore: p.Sleep.ReminderMinutesBefore,
		},
		Progress: progressRecord{
			Enabled:   p.Progress.Enabled,
			Frequency: string(p.Progress.Frequency),
		},
		UpdatedAt: time.Now().UTC(),
	}
}

func recordToPreferences(r *preferencesRecord) (*domain.NotificationPreferences, error) {
	wake, err := domain.ParseTimeOfDay(r.Water.WakeUpTime)
	if err != nil {
		return nil, ErrInvalidPreferencesData
	}
	sleep, err := domain.ParseTimeOfDay(r.Water.SleepTime)
	if err != nil {
		return nil, ErrInvalidPreferencesData
	}
	breakfast, err := domain.ParseTimeOfDay(r.Meals.Breakfast.Time)
	if err != nil {
		return nil, ErrInvalidPreferencesData
	}
	lunch, err := domain.ParseTimeOfDay(r.Meals.Lunch.Time)
	if err != nil {
		return nil, ErrInvalidPreferencesData
	}
	dinner, err := domain.ParseTimeOfDay(r.Meals.Dinner.Time)
	if err != nil {
		return nil, ErrInvalidPreferencesData
	}
	bedtime, err := domain.ParseTimeOfDay(r.Sleep.Bedtime)
	if err != nil {
		return nil, ErrInvalidPreferencesData
	}

	return &domain.NotificationPreferences{
		Water: domain.WaterConfig{
			Enabled:         r.Water.Enabled,
			DailyGoalLiters: r.Water.DailyGoalLiters,
			WakeUpTime:      wake,
			SleepTime:       sleep,
		},
		Workout: domain.WorkoutConfig{
			Enabled:               r.Workout.Enabled,
			ReminderMinutesBefore: r.Workout.ReminderMinutesBefore,
		},
		Meals: domain.MealsConfig{
			Enabled:   r.Meals.Enabled,
			Breakfast: domain.MealSlot{Enabled: r.Meals.Breakfast.Enabled, Time: breakfast},
			Lunch:     domain.MealSlot{Enabled: r.Meals.Lunch.Enabled, Time: lunch},
			Dinner:    domain.MealSlot{Enabled: r.Meals.Dinner.Enabled, Time: dinner},
		},
		Sleep: domain.SleepConfig{
			Enabled:               r.Sleep.Enabled,
			Bedtime:               bedtime,
			ReminderMinutesBefore: r.Sleep.ReminderMinutesBefore,
		},
		Progress: domain.ProgressConfig{
			Enabled:   r.Progress.Enabled,
			Frequency: domain.ProgressFrequency(r.Progress.Frequency),
		},
	}, nil
}
