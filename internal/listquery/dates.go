package listquery

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date ("2024-03-17") interpreted in loc, or a
// full RFC 3339 timestamp. The result is in UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// StartOfDay returns 00:00:00.000 of t's calendar day in loc, as UTC.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc, as UTC.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, int(999*time.Millisecond), loc).UTC()
}

// DayRange covers the whole calendar day containing t.
func DayRange(t time.Time, loc *time.Location) DateRange {
	from, to := StartOfDay(t, loc), EndOfDay(t, loc)
	return DateRange{From: &from, To: &to}
}

// ParseDateRange turns optional start/end date strings into an inclusive
// range: start snaps to the beginning of its day, end to the end of its day.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if strings.TrimSpace(start) != "" {
		t, err := ParseDate(start, loc)
		if err != nil {
			return r, err
		}
		from := StartOfDay(t, loc)
		r.From = &from
	}
	if strings.TrimSpace(end) != "" {
		t, err := ParseDate(end, loc)
		if err != nil {
			return r, err
		}
		to := EndOfDay(t, loc)
		r.To = &to
	}
	return r, nil
}
