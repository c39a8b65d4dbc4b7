// utils/week.go
package utils

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date string matches none of the accepted layouts.
var ErrInvalidDate = errors.New("invalid date")

// Layouts accepted for date inputs. Zone-less layouts are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// WeekOf returns the Monday 00:00:00 UTC that starts the ISO week containing t.
// Sunday belongs to the week that started six days earlier.
func WeekOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	back := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		back = 6
	}
	return day.AddDate(0, 0, -back)
}

// SameWeek reports whether a and b fall into the same ISO week.
func SameWeek(a, b time.Time) bool {
	return WeekOf(a).Equal(WeekOf(b))
}

// ParseDate parses a date or timestamp string in one of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseWeekSelector resolves an optional week selector into a week marker.
// An empty selector means the week containing now.
func ParseWeekSelector(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return WeekOf(now), nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return WeekOf(t), nil
}
