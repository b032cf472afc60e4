package schedule

import (
	"testing"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

func TestWaterReminderCount(t *testing.T) {
	tests := []struct {
		name string
		goal float64
		want int
	}{
		{"four liters", 4, 16},
		{"fractional goal rounds up", 2.1, 9},
		{"three liters", 3, 12},
		{"one liter", 1, 4},
		{"zero goal", 0, 0},
		{"negative goal", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WaterReminderCount(tt.goal); got != tt.want {
				t.Errorf("WaterReminderCount(%v) = %d, want %d", tt.goal, got, tt.want)
			}
		})
	}
}

func TestFrequencyLabel(t *testing.T) {
	tests := []struct {
		name  string
		goal  float64
		wake  string
		sleep string
		want  string
	}{
		{"dense schedule", 10, "07:00", "23:00", "Every 30-60 min"},
		{"typical schedule", 3, "06:30", "22:00", "Every 1-2 hours"},
		{"sparse schedule", 1, "07:00", "23:00", "Every 4 hours"},
		{"no goal", 0, "07:00", "23:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &domain.WaterConfig{
				DailyGoalLiters: tt.goal,
				WakeUpTime:      domain.MustTimeOfDay(tt.wake),
				SleepTime:       domain.MustTimeOfDay(tt.sleep),
			}
			if got := FrequencyLabel(cfg); got != tt.want {
				t.Errorf("FrequencyLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
