package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           string
	LogLevel       slog.Level
	WorkoutPlanURL string
	Sink           SinkConfig
	Redis          *RedisConfig
	Schedule       *ScheduleConfig
}

// SinkConfig configures the notification delivery gateway. An empty
// GatewayURL means the runtime cannot deliver local notifications at
// all; the engine then persists configuration but skips scheduling.
type SinkConfig struct {
	GatewayURL string
	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxRetries := 3
	if v := os.Getenv("NOTIFY_GATEWAY_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := LoadScheduleConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           port,
		LogLevel:       parseLogLevel(os.Getenv("LOG_LEVEL")),
		WorkoutPlanURL: os.Getenv("WORKOUT_PLAN_URL"),
		Sink: SinkConfig{
			GatewayURL: os.Getenv("NOTIFY_GATEWAY_URL"),
			MaxRetries: maxRetries,
		},
		Redis:    redisConfig,
		Schedule: scheduleConfig,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
