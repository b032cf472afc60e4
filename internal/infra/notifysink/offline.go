package notifysink

import (
	"context"
	"errors"
)

var errOffline = errors.New("notification sink not configured")

// OfflineSink is the sink used when no gateway URL is configured. It
// reports itself unavailable so callers fall back to configuration-only
// mode instead of erroring on every preference change.
type OfflineSink struct{}

func NewOfflineSink() *OfflineSink {
	return &OfflineSink{}
}

func (s *OfflineSink) Schedule(_ context.Context, _ *Entry) error { return errOffline }

func (s *OfflineSink) Cancel(_ context.Context, _ string) error { return errOffline }

func (s *OfflineSink) CancelByPrefix(_ context.Context, _ string) (int, error) {
	return 0, errOffline
}

func (s *OfflineSink) CountPending(_ context.Context) (int, error) { return 0, errOffline }

func (s *OfflineSink) IsAvailable(_ context.Context) bool { return false }
