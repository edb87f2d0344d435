package schema

import (
	"fmt"
	"strings"
	"time"
)

// FormatSpan renders a day count as a compact years/months/days string such as "3y2m".
// Days are dropped (rounding the month) once the span reaches a year or more than six months.
func FormatSpan(days int) string {
	y, d := days/365, days%365
	m, d := d/30, d%30
	if y > 0 || m > 6 {
		if d > 15 {
			m++
		}
		d = 0
	}
	if m == 12 {
		y++
		m = 0
	}

	var sb strings.Builder
	for _, part := range []struct {
		value int
		unit  string
	}{{y, "y"}, {m, "m"}, {d, "d"}} {
		if part.value != 0 {
			fmt.Fprintf(&sb, "%d%s", part.value, part.unit)
		}
	}
	if sb.Len() == 0 {
		return "0d"
	}
	return sb.String()
}

// ParseDay parses a YYYY-MM-DD key into a UTC date.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}

// DayKey builds the YYYY-MM-DD key from a 14-digit capture timestamp.
// It returns false when the timestamp is too short to carry a date.
func DayKey(timestamp string) (string, bool) {
	if len(timestamp) < 8 {
		return "", false
	}
	return timestamp[:4] + "-" + timestamp[4:6] + "-" + timestamp[6:8], true
}
