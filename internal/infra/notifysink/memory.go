package notifysink

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemorySink is an in-process sink used by tests and local development.
// Capacity > 0 simulates the platform cap on pending local
// notifications: entries beyond it are rejected with
// ErrCapacityExceeded, which is how a degraded reschedule is exercised.
type MemorySink struct {
	mu       sync.Mutex
	entries  map[string]Entry
	capacity int
}

func NewMemorySink(capacity int) *MemorySink {
	return &MemorySink{
		entries:  make(map[string]Entry),
		capacity: capacity,
	}
}

func (s *MemorySink) Schedule(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.ID]; !exists && s.capacity > 0 && len(s.entries) >= s.capacity {
		return ErrCapacityExceeded
	}

	s.entries[entry.ID] = *entry
	return nil
}

func (s *MemorySink) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemorySink) CancelByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id := range s.entries {
		if strings.HasPrefix(id, prefix) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemorySink) CountPending(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries), nil
}

func (s *MemorySink) IsAvailable(_ context.Context) bool {
	return true
}

// Pending returns a snapshot of the stored entries ordered by ID, for
// test assertions.
func (s *MemorySink) Pending() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PendingWithPrefix counts stored entries for one category prefix.
func (s *MemorySink) PendingWithPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id := range s.entries {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return n
}
