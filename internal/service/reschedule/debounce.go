package reschedule

import (
	"sync"
	"time"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

// Debouncer coalesces rapid reschedule triggers per category. A slider
// dragged in the settings screen fires many updates; only the last one
// within the delay window reaches the sink.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[domain.Category]*time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[domain.Category]*time.Timer),
	}
}

// Trigger schedules fn to run after the delay, replacing any pending
// trigger for the same category. A non-positive delay runs fn inline.
func (d *Debouncer) Trigger(category domain.Category, fn func()) {
	if d.delay <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[category]; ok {
		t.Stop()
	}
	d.timers[category] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, category)
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels every pending trigger. Pending work is dropped, not run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for category, t := range d.timers {
		t.Stop()
		delete(d.timers, category)
	}
}
