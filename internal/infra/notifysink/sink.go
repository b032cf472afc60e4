package notifysink

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=sink.go -destination=mock.go -package=notifysink

var (
	// ErrCapacityExceeded is returned by Schedule when the platform cap
	// on pending local notifications is reached. Entries accepted before
	// the cap stay scheduled.
	ErrCapacityExceeded = errors.New("pending notification capacity exceeded")

	ErrEntryNotFound = errors.New("sink entry not found")
)

// Entry is one pending local notification as the sink sees it. The ID
// carries the category prefix ("water:...") so a whole category can be
// cancelled in one call.
type Entry struct {
	ID         string    `json:"id"`
	FireAt     time.Time `json:"fire_at"`
	PayloadKey string    `json:"payload_key"`
}

// Sink abstracts the OS-level notification delivery service. The engine
// treats it as an opaque scheduling target: it only ever replaces whole
// category sets, never edits entries in place.
type Sink interface {
	Schedule(ctx context.Context, entry *Entry) error
	Cancel(ctx context.Context, id string) error
	// CancelByPrefix removes every pending entry whose ID starts with
	// prefix and returns how many were removed.
	CancelByPrefix(ctx context.Context, prefix string) (int, error)
	CountPending(ctx context.Context) (int, error)
	// IsAvailable reports whether the host runtime can deliver local
	// notifications at all. Resolved once at startup; callers branch on
	// the result instead of probing per mutation.
	IsAvailable(ctx context.Context) bool
}
