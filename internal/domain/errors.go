package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPreferencesNotFound  = errors.New("preferences not found")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrEmptyPatch           = errors.New("patch carries no fields for the category")
	ErrUnsupportedFrequency = errors.New("unsupported progress frequency")
	ErrSinkUnavailable      = errors.New("notification sink unavailable")
)

// InvalidFormatError reports a time string that fails the HH:MM pattern.
// Field-level and recoverable by re-entry; never reaches persistence.
type InvalidFormatError struct {
	Field string
	Value string
}

func (e *InvalidFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid time format %q, expected HH:MM", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid time format %q, expected HH:MM", e.Value)
}

// OutOfRangeError reports a numeric field outside its allowed bounds.
type OutOfRangeError struct {
	Field string
	Min   float64
	Max   float64
	Value float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %v out of range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// ConflictError is a soft finding: saving is allowed once the user
// explicitly confirms, unlike hard validation failures.
type ConflictError struct {
	Category Category
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: schedule conflict: %s", e.Category, e.Reason)
}

// PartialScheduleError reports a reschedule where the sink accepted only
// part of the submitted set. The category stays operable with whatever
// was accepted and is flagged degraded.
type PartialScheduleError struct {
	Category Category
	Accepted int
	Rejected int
	Err      error
}

func (e *PartialScheduleError) Error() string {
	return fmt.Sprintf("%s: sink accepted %d of %d reminders: %v",
		e.Category, e.Accepted, e.Accepted+e.Rejected, e.Err)
}

func (e *PartialScheduleError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a storage write failure. The in-memory aggregate
// is rolled back so the store never reports success for an unsaved state.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("preferences persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
