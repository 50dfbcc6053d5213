package services

import (
	"strings"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

// Accepted input layouts, tried in order. Slash forms are month-first.
var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses s in any accepted layout and returns UTC midnight of that day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// NormalizeDate returns s in the canonical YYYY-MM-DD form.
func NormalizeDate(field, s string) (string, error) {
	t, ok := ParseDate(s)
	if !ok {
		return "", fieldInvalid(field, "not a recognised date")
	}
	return t.Format(domain.DateLayout), nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
