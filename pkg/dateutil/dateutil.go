package dateutil

import (
	"fmt"
	"time"
)

// Day truncation policy: one canonical basis, UTC midnight, applied everywhere
// dates are compared. Two timestamps on the same UTC calendar day normalize to
// the identical key regardless of their original zone or time-of-day.

// NormalizeDay collapses a timestamp to its UTC calendar day (midnight UTC).
// Idempotent: normalizing an already-normalized value returns the same value.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day
func SameDay(a, b time.Time) bool {
	return NormalizeDay(a).Equal(NormalizeDay(b))
}

// Parse accepts the date formats clients send: RFC3339 timestamps and bare
// YYYY-MM-DD dates. Bare dates are taken as UTC.
func Parse(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", value)
}

// WeekWindow expands a week start into the half-open interval
// [start, start+7d) on normalized day boundaries.
func WeekWindow(weekStart time.Time) (time.Time, time.Time) {
	start := NormalizeDay(weekStart)
	return start, start.AddDate(0, 0, 7)
}

// InWindow reports whether t falls inside the half-open interval [start, end)
func InWindow(t, start, end time.Time) bool {
	d := NormalizeDay(t)
	return !d.Before(start) && d.Before(end)
}
