package model

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the wire format for calendar dates (blackout dates,
// availability queries). Times of day travel as HH:mm strings and are
// compared as minutes since midnight.
const DateLayout = "2006-01-02"

var (
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// ParseDate parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	if !dateRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// DateKey renders the calendar-date portion of a timestamp, the form blackout
// sets are keyed by.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseClock parses an HH:mm string into minutes since midnight.
// A single-digit hour is accepted ("9:00").
func ParseClock(s string) (int, error) {
	if !clockRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return h*60 + m, nil
}

func IsValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// MinuteOfDay returns the minutes elapsed since midnight UTC for t.
func MinuteOfDay(t time.Time) int {
	u := t.UTC()
	return u.Hour()*60 + u.Minute()
}

// At combines a calendar date with an HH:mm time of day into an absolute
// UTC timestamp.
func At(date time.Time, clock string) (time.Time, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute), nil
}

// Overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) share any instant. A booking that ends exactly when another
// starts does not overlap it.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// ClockOverlaps is Overlaps for minutes-since-midnight ranges, used when
// matching a requested time of day against recurring slots.
func ClockOverlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}
