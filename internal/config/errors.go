package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidHorizonDays     = errors.New("PLANNING_HORIZON_DAYS must be an integer between 1 and 14")
	ErrInvalidProgressWeekday = errors.New("PROGRESS_REMINDER_WEEKDAY must be an integer between 0 (Sunday) and 6")
	ErrInvalidProgressTime    = errors.New("PROGRESS_REMINDER_TIME must be a valid HH:MM time")
	ErrInvalidWaterFrontLoad  = errors.New("WATER_FRONT_LOAD_FACTOR must be a float in [0, 1)")
	ErrInvalidDebounce        = errors.New("RESCHEDULE_DEBOUNCE_MS must be a non-negative integer")
)
