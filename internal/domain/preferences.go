package domain

// NotificationPreferences is the aggregate root for a user's reminder
// configuration. One sub-config per category; disabling a category keeps
// its stored settings so re-enabling restores them.
type NotificationPreferences struct {
	Water    WaterConfig    `json:"water"`
	Workout  WorkoutConfig  `json:"workout"`
	Meals    MealsConfig    `json:"meals"`
	Sleep    SleepConfig    `json:"sleep"`
	Progress ProgressConfig `json:"progress"`
}

type WaterConfig struct {
	Enabled         bool      `json:"enabled"`
	DailyGoalLiters float64   `json:"daily_goal_liters"`
	WakeUpTime      TimeOfDay `json:"wake_up_time"`
	SleepTime       TimeOfDay `json:"sleep_time"`
}

type WorkoutConfig struct {
	Enabled               bool `json:"enabled"`
	ReminderMinutesBefore int  `json:"reminder_minutes_before"`
}

type MealSlot struct {
	Enabled bool      `json:"enabled"`
	Time    TimeOfDay `json:"time"`
}

type MealsConfig struct {
	Enabled   bool     `json:"enabled"`
	Breakfast MealSlot `json:"breakfast"`
	Lunch     MealSlot `json:"lunch"`
	Dinner    MealSlot `json:"dinner"`
}

type SleepConfig struct {
	Enabled               bool      `json:"enabled"`
	Bedtime               TimeOfDay `json:"bedtime"`
	ReminderMinutesBefore int       `json:"reminder_minutes_before"`
}

// ProgressFrequency currently only supports weekly summaries.
type ProgressFrequency string

const ProgressWeekly ProgressFrequency = "weekly"

type ProgressConfig struct {
	Enabled   bool              `json:"enabled"`
	Frequency ProgressFrequency `json:"frequency"`
}

// DefaultPreferences returns the built-in configuration used when no
// stored aggregate exists yet.
func DefaultPreferences() *NotificationPreferences {
	return &NotificationPreferences{
		Water: WaterConfig{
			Enabled:         true,
			DailyGoalLiters: 4,
			WakeUpTime:      TimeOfDay{Hour: 7},
			SleepTime:       TimeOfDay{Hour: 23},
		},
		Workout: WorkoutConfig{
			Enabled:               true,
			ReminderMinutesBefore: 30,
		},
		Meals: MealsConfig{
			Enabled:   true,
			Breakfast: MealSlot{Enabled: true, Time: TimeOfDay{Hour: 8}},
			Lunch:     MealSlot{Enabled: true, Time: TimeOfDay{Hour: 13}},
			Dinner:    MealSlot{Enabled: true, Time: TimeOfDay{Hour: 19}},
		},
		Sleep: SleepConfig{
			Enabled:               false,
			Bedtime:               TimeOfDay{Hour: 22, Minute: 30},
			ReminderMinutesBefore: 30,
		},
		Progress: ProgressConfig{
			Enabled:   true,
			Frequency: ProgressWeekly,
		},
	}
}

// Clone returns a deep copy. Sub-configs contain only value types, so a
// struct copy is sufficient.
func (p *NotificationPreferences) Clone() *NotificationPreferences {
	cp := *p
	return &cp
}

// Enabled reports whether the given category is switched on.
func (p *NotificationPreferences) Enabled(category Category) bool {
	switch category {
	case CategoryWater:
		return p.Water.Enabled
	case CategoryWorkout:
		return p.Workout.Enabled
	case CategoryMeals:
		return p.Meals.Enabled
	case CategorySleep:
		return p.Sleep.Enabled
	case CategoryProgress:
		return p.Progress.Enabled
	}
	return false
}

// SetEnabled flips the enabled flag of a category in place.
func (p *NotificationPreferences) SetEnabled(category Category, enabled bool) {
	switch category {
	case CategoryWater:
		p.Water.Enabled = enabled
	case CategoryWorkout:
		p.Workout.Enabled = enabled
	case CategoryMeals:
		p.Meals.Enabled = enabled
	case CategorySleep:
		p.Sleep.Enabled = enabled
	case CategoryProgress:
		p.Progress.Enabled = enabled
	}
}
