package workoutplan

import (
	"context"
	"time"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=mock.go -package=workoutplan

// Repository supplies the planned workout occurrences for a time range.
// Consumed read-only by the schedule computer; the engine never knows
// workout times itself.
type Repository interface {
	GetOccurrences(ctx context.Context, start, end time.Time) ([]domain.WorkoutOccurrence, error)
}
