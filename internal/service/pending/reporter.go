package pending

import (
	"context"
	"fmt"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/notifysink"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/reschedule"
)

// Report is the scheduled-reminder snapshot surfaced in the settings
// screen footer.
type Report struct {
	Count      int
	SinkOnline bool
	Degraded   []domain.Category
}

// Reporter reads the pending count straight from the sink, so the
// number reflects what was actually accepted rather than what was
// computed.
type Reporter struct {
	sink        notifysink.Sink
	rescheduler *reschedule.Rescheduler
}

func NewReporter(sink notifysink.Sink, rescheduler *reschedule.Rescheduler) *Reporter {
	return &Reporter{
		sink:        sink,
		rescheduler: rescheduler,
	}
}

func (r *Reporter) ScheduledCount(ctx context.Context) (*Report, error) {
	if !r.sink.IsAvailable(ctx) {
		return &Report{
			SinkOnline: false,
			Degraded:   r.rescheduler.DegradedCategories(),
		}, nil
	}

	count, err := r.sink.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending reminders: %w", err)
	}

	return &Report{
		Count:      count,
		SinkOnline: true,
		Degraded:   r.rescheduler.DegradedCategories(),
	}, nil
}
