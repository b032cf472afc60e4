package config

import "github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"

func ValidateForRun(cfg *Config) error {
	if err := cfg.Redis.Validate(); err != nil {
		return err
	}
	if _, err := domain.ParseTimeOfDay(cfg.Schedule.ProgressTime); err != nil {
		return ErrInvalidProgressTime
	}
	return nil
}
