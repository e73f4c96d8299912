package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for completion dates.
const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseCompletionDate parses a stored completion date. Plain dates and timestamps are accepted;
// for timestamps the calendar date is taken as written, without converting
// between time zones.
func ParseCompletionDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// CompletedOn returns the parsed completion date, if the book has a usable one.
func (b Book) CompletedOn() (time.Time, bool) {
	if b.DateCompleted == nil {
		return time.Time{}, false
	}
	return ParseCompletionDate(*b.DateCompleted)
}
