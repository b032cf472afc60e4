package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var timeOfDayPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeOfDay is a wall-clock time without a date component, as entered by
// the user in 24-hour "HH:MM" form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string. A missing leading zero
// on the hour is accepted ("7:30").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, &InvalidFormatError{Value: s}
	}

	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])

	return TimeOfDay{Hour: h, Minute: min}, nil
}

// MustTimeOfDay is a convenience for defaults and tests. Panics on
// invalid input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// IsMidnight reports whether the value is exactly 00:00. Midnight acts
// as a sentinel in the water schedule conflict check.
func (t TimeOfDay) IsMidnight() bool {
	return t.Hour == 0 && t.Minute == 0
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12h renders the time for display ("7:05 PM"). Never used in
// scheduling math.
func (t TimeOfDay) Format12h() string {
	period := "AM"
	h := t.Hour
	if h >= 12 {
		period = "PM"
	}
	if h == 0 {
		h = 12
	} else if h > 12 {
		h -= 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute, period)
}

// At anchors the time of day on the calendar date of base in base's
// location.
func (t TimeOfDay) At(base time.Time) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), t.Hour, t.Minute, 0, 0, base.Location())
}

// MarshalText implements encoding.TextMarshaler so the value persists as
// the user-facing "HH:MM" string.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MinutesBetween returns the duration in minutes from one time of day to
// another, wrapping across midnight when to is not after from. A sleep
// time of 00:30 with a 07:00 wake therefore counts as next-day sleep
// (17.5 h awake).
func MinutesBetween(from, to TimeOfDay) int {
	d := to.Minutes() - from.Minutes()
	if d <= 0 {
		d += minutesPerDay
	}
	return d
}
