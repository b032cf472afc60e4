package domain

import (
	"fmt"
	"time"
)

// ScheduledReminder is one concrete reminder instant derived from the
// current configuration. It is never persisted: the set is recomputed on
// demand, submitted to the sink, and superseded wholesale on the next
// reschedule of its category.
type ScheduledReminder struct {
	Category   Category
	SubID      string
	FireAt     time.Time
	PayloadKey string
}

// NewScheduledReminder builds a reminder whose sink ID carries the
// category prefix so CancelByPrefix can remove the whole category.
func NewScheduledReminder(category Category, subID string, fireAt time.Time, payloadKey string) ScheduledReminder {
	return ScheduledReminder{
		Category:   category,
		SubID:      subID,
		FireAt:     fireAt,
		PayloadKey: payloadKey,
	}
}

// ID is the sink identifier, "<category>:<subId>".
func (r ScheduledReminder) ID() string {
	return fmt.Sprintf("%s:%s", r.Category, r.SubID)
}

// WorkoutOccurrence is one planned workout supplied by the workout-plan
// collaborator; the engine maps each occurrence to one reminder.
type WorkoutOccurrence struct {
	WorkoutID string    `json:"workout_id"`
	StartAt   time.Time `json:"start_at"`
}
