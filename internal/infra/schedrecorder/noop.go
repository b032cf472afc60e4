package schedrecorder

import (
	"context"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.RescheduleRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordReschedule(_ context.Context, _ domain.RescheduleRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
