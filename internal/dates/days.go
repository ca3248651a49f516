package dates

import (
	"fmt"
	"time"
)

// Layout is the calendar-date format used by census records.
const Layout = "2006-01-02"

// Day is the length of one calendar day in UTC.
const Day = 24 * time.Hour

const secondsPerDay = int64(Day / time.Second)

// DaysBetween returns the number of days from start to end, rounding any
// fractional day up. When end is before start the result is negative.
// The difference is taken in whole seconds, so spans longer than a
// time.Duration can hold are still exact.
func DaysBetween(start, end time.Time) int {
	secs := end.Unix() - start.Unix()
	nanos := end.Nanosecond() - start.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}

	days, rem := secs/secondsPerDay, secs%secondsPerDay
	if rem < 0 {
		days--
		rem += secondsPerDay
	}
	if rem > 0 || nanos > 0 {
		days++
	}
	return int(days)
}

// ParseDate parses a YYYY-MM-DD string into UTC midnight of that date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Today returns the calendar date of now as seen in loc, at UTC midnight so
// it compares directly with parsed census dates. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
