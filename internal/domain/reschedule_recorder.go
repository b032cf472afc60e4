package domain

import (
	"context"
	"time"
)

// RescheduleRecord captures the outcome of one category reschedule for
// offline analysis (accepted/rejected counts, timing, trigger).
type RescheduleRecord struct {
	Category   Category
	Trigger    string
	StartedAt  time.Time
	Duration   time.Duration
	Cancelled  int
	Submitted  int
	Rejected   int
	Degraded   bool
	SinkOnline bool
}

type RescheduleRecorder interface {
	RecordReschedule(ctx context.Context, record RescheduleRecord) error
	Flush(ctx context.Context) error
	Close() error
}
