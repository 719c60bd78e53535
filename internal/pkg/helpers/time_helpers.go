package helpers

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ClockLayout is the wire format for times of day.
const ClockLayout = "15:04"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ValidClock reports whether s is a parseable HH:MM time of day.
func ValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// TruncateToDate strips the time-of-day component, keeping the location.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two instants fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return TruncateToDate(a).Equal(TruncateToDate(b))
}

// WeekdayNumber maps a date onto the teaching grid's day numbering, where
// Monday is 1 and Sunday is 7.
func WeekdayNumber(t time.Time) int {
	weekday := t.Weekday()
	if weekday == time.Sunday {
		return 7
	}
	return int(weekday)
}
