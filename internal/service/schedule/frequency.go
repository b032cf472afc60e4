package schedule

import (
	"fmt"
	"math"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

// remindersPerLiter is the fixed heuristic behind the daily water
// reminder count: roughly one reminder per glass.
const remindersPerLiter = 4

// WaterReminderCount returns the number of water reminders per day for
// a daily goal, ceil(goal * 4).
func WaterReminderCount(dailyGoalLiters float64) int {
	if dailyGoalLiters <= 0 {
		return 0
	}
	return int(math.Ceil(dailyGoalLiters * remindersPerLiter))
}

// FrequencyLabel renders the average reminder interval as the human
// label shown in the settings screen. Display only; the actual spacing
// is non-uniform.
func FrequencyLabel(cfg *domain.WaterConfig) string {
	count := WaterReminderCount(cfg.DailyGoalLiters)
	if count == 0 {
		return ""
	}

	awakeHours := float64(domain.MinutesBetween(cfg.WakeUpTime, cfg.SleepTime)) / 60
	interval := awakeHours / float64(count)

	switch {
	case interval < 1:
		return "Every 30-60 min"
	case interval < 2:
		return "Every 1-2 hours"
	default:
		return fmt.Sprintf("Every %d hours", int(math.Round(interval)))
	}
}
