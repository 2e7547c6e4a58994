// Package model contains domain values passed between layers.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Clock constants.
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour
	minutesPerDay    = 24 * 60
)

// TimeOfDay is a wall-clock time independent of any calendar date.
// Seconds are not represented; only hour and minute are meaningful.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay builds a TimeOfDay, rejecting values outside 00:00-23:59.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MustTimeOfDay is NewTimeOfDay for constants; it panics on invalid input.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// FromTime keeps the hour and minute of t and drops everything else.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay accepts "15:04", "3:04PM" and "3:04 PM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return TimeOfDay{}, fmt.Errorf("%w: empty", ErrInvalidTimeOfDay)
	}
	for _, layout := range []string{"15:04", "3:04PM", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	// time.Parse wants two-digit hours for "15"; accept "7:00" too.
	if h, m, ok := strings.Cut(s, ":"); ok && len(m) == 2 {
		hour, errH := strconv.Atoi(h)
		minute, errM := strconv.Atoi(m)
		if errH == nil && errM == nil {
			return NewTimeOfDay(hour, minute)
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// SecondsSinceMidnight returns hour*3600 + minute*60.
func (t TimeOfDay) SecondsSinceMidnight() int {
	return t.Hour*SecondsPerHour + t.Minute*SecondsPerMinute
}

// Minus subtracts a duration given in seconds and wraps across midnight.
// The result is floored to the minute, matching a clock that hides seconds.
func (t TimeOfDay) Minus(seconds float64) TimeOfDay {
	total := math.Mod(float64(t.SecondsSinceMidnight())-seconds, SecondsPerDay)
	if total < 0 {
		total += SecondsPerDay
	}
	minutes := int(math.Floor(total/SecondsPerMinute)) % minutesPerDay
	return TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}

// On places t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}

// String renders the 24-hour form, e.g. "23:00".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Kitchen renders the short 12-hour display form, e.g. "11:00 PM".
func (t TimeOfDay) Kitchen() string {
	return t.On(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)).Format("3:04 PM")
}

// MarshalText implements encoding.TextMarshaler using the 24-hour form.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
