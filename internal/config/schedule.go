package config

import (
	"os"
	"strconv"
	"time"
)

const (
	horizonDaysEnv          = "PLANNING_HORIZON_DAYS"
	progressWeekdayEnv      = "PROGRESS_REMINDER_WEEKDAY"
	progressTimeEnv         = "PROGRESS_REMINDER_TIME"
	waterFrontLoadEnv       = "WATER_FRONT_LOAD_FACTOR"
	rescheduleDebounceMsEnv = "RESCHEDULE_DEBOUNCE_MS"

	defaultHorizonDays    = 2
	defaultProgressTime   = "19:00"
	defaultWaterFrontLoad = 0.4
	defaultDebounce       = 400 * time.Millisecond
	maxHorizonDays        = 14
)

// ScheduleConfig carries the tunables of the schedule computer and the
// rescheduler. WaterFrontLoad controls how strongly water reminders lean
// toward the start of the awake window (0 = evenly spaced).
type ScheduleConfig struct {
	HorizonDays        int
	ProgressWeekday    time.Weekday
	ProgressTime       string
	WaterFrontLoad     float64
	RescheduleDebounce time.Duration
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	cfg := &ScheduleConfig{
		HorizonDays:        defaultHorizonDays,
		ProgressWeekday:    time.Sunday,
		ProgressTime:       defaultProgressTime,
		WaterFrontLoad:     defaultWaterFrontLoad,
		RescheduleDebounce: defaultDebounce,
	}

	if v := os.Getenv(horizonDaysEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxHorizonDays {
			return nil, ErrInvalidHorizonDays
		}
		cfg.HorizonDays = parsed
	}

	if v := os.Getenv(progressWeekdayEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 || parsed > 6 {
			return nil, ErrInvalidProgressWeekday
		}
		cfg.ProgressWeekday = time.Weekday(parsed)
	}

	if v := os.Getenv(progressTimeEnv); v != "" {
		cfg.ProgressTime = v
	}

	if v := os.Getenv(waterFrontLoadEnv); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed >= 1 {
			return nil, ErrInvalidWaterFrontLoad
		}
		cfg.WaterFrontLoad = parsed
	}

	if v := os.Getenv(rescheduleDebounceMsEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidDebounce
		}
		cfg.RescheduleDebounce = time.Duration(parsed) * time.Millisecond
	}

	return cfg, nil
}
