package utils

import (
	"fmt"
	"time"
)

// DateLayout is the date-only ISO-8601 layout accepted by the API
const DateLayout = "2006-01-02"

// ParseDate accepts either a date-only value or a full RFC 3339 timestamp.
// The returned flag reports whether the input carried only a date.
func ParseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, false, nil
}

// EndOfDay returns the last nanosecond of t's calendar day
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
