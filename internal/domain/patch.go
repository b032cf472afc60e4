package domain

// Patches carry partial updates from the edit modals. Nil fields keep the
// stored value; validation always runs against the merged result.

type WaterPatch struct {
	Enabled         *bool    `json:"enabled,omitempty"`
	DailyGoalLiters *float64 `json:"daily_goal_liters,omitempty"`
	WakeUpTime      *string  `json:"wake_up_time,omitempty"`
	SleepTime       *string  `json:"sleep_time,omitempty"`
}

type WorkoutPatch struct {
	Enabled               *bool `json:"enabled,omitempty"`
	ReminderMinutesBefore *int  `json:"reminder_minutes_before,omitempty"`
}

type MealSlotPatch struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Time    *string `json:"time,omitempty"`
}

type MealsPatch struct {
	Enabled   *bool          `json:"enabled,omitempty"`
	Breakfast *MealSlotPatch `json:"breakfast,omitempty"`
	Lunch     *MealSlotPatch `json:"lunch,omitempty"`
	Dinner    *MealSlotPatch `json:"dinner,omitempty"`
}

type SleepPatch struct {
	Enabled               *bool   `json:"enabled,omitempty"`
	Bedtime               *string `json:"bedtime,omitempty"`
	ReminderMinutesBefore *int    `json:"reminder_minutes_before,omitempty"`
}

type ProgressPatch struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
}

// CategoryPatch is the union of per-category patches; exactly one field
// is set, matching the category being edited.
type CategoryPatch struct {
	Water    *WaterPatch    `json:"water,omitempty"`
	Workout  *WorkoutPatch  `json:"workout,omitempty"`
	Meals    *MealsPatch    `json:"meals,omitempty"`
	Sleep    *SleepPatch    `json:"sleep,omitempty"`
	Progress *ProgressPatch `json:"progress,omitempty"`
}

// Apply merges the patch into a copy of prefs and returns it. Time
// strings are parsed here so a malformed value surfaces as
// InvalidFormatError before anything is persisted.
func (cp *CategoryPatch) Apply(prefs *NotificationPreferences, category Category) (*NotificationPreferences, error) {
	merged := prefs.Clone()

	switch category {
	case CategoryWater:
		if cp.Water == nil {
			return nil, ErrEmptyPatch
		}
		if err := cp.Water.apply(&merged.Water); err != nil {
			return nil, err
		}
	case CategoryWorkout:
		if cp.Workout == nil {
			return nil, ErrEmptyPatch
		}
		cp.Workout.apply(&merged.Workout)
	case CategoryMeals:
		if cp.Meals == nil {
			return nil, ErrEmptyPatch
		}
		if err := cp.Meals.apply(&merged.Meals); err != nil {
			return nil, err
		}
	case CategorySleep:
		if cp.Sleep == nil {
			return nil, ErrEmptyPatch
		}
		if err := cp.Sleep.apply(&merged.Sleep); err != nil {
			return nil, err
		}
	case CategoryProgress:
		if cp.Progress == nil {
			return nil, ErrEmptyPatch
		}
		if err := cp.Progress.apply(&merged.Progress); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownCategory
	}

	return merged, nil
}

func (p *WaterPatch) apply(cfg *WaterConfig) error {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.DailyGoalLiters != nil {
		cfg.DailyGoalLiters = *p.DailyGoalLiters
	}
	if p.WakeUpTime != nil {
		t, err := ParseTimeOfDay(*p.WakeUpTime)
		if err != nil {
			return err
		}
		cfg.WakeUpTime = t
	}
	if p.SleepTime != nil {
		t, err := ParseTimeOfDay(*p.SleepTime)
		if err != nil {
			return err
		}
		cfg.SleepTime = t
	}
	return nil
}

func (p *WorkoutPatch) apply(cfg *WorkoutConfig) {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.ReminderMinutesBefore != nil {
		cfg.ReminderMinutesBefore = *p.ReminderMinutesBefore
	}
}

func (p *MealSlotPatch) apply(slot *MealSlot) error {
	if p.Enabled != nil {
		slot.Enabled = *p.Enabled
	}
	if p.Time != nil {
		t, err := ParseTimeOfDay(*p.Time)
		if err != nil {
			return err
		}
		slot.Time = t
	}
	return nil
}

func (p *MealsPatch) apply(cfg *MealsConfig) error {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.Breakfast != nil {
		if err := p.Breakfast.apply(&cfg.Breakfast); err != nil {
			return err
		}
	}
	if p.Lunch != nil {
		if err := p.Lunch.apply(&cfg.Lunch); err != nil {
			return err
		}
	}
	if p.Dinner != nil {
		if err := p.Dinner.apply(&cfg.Dinner); err != nil {
			return err
		}
	}
	return nil
}

func (p *SleepPatch) apply(cfg *SleepConfig) error {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.Bedtime != nil {
		t, err := ParseTimeOfDay(*p.Bedtime)
		if err != nil {
			return err
		}
		cfg.Bedtime = t
	}
	if p.ReminderMinutesBefore != nil {
		cfg.ReminderMinutesBefore = *p.ReminderMinutesBefore
	}
	return nil
}

func (p *ProgressPatch) apply(cfg *ProgressConfig) error {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.Frequency != nil {
		if ProgressFrequency(*p.Frequency) != ProgressWeekly {
			return ErrUnsupportedFrequency
		}
		cfg.Frequency = ProgressWeekly
	}
	return nil
}
