package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// ErrInvalidInput is returned for dates or week-start values that cannot
// produce a grid.
var ErrInvalidInput = errors.New("invalid input")

// weekday of a civil date. civil dates carry no zone, so UTC is used only
// as a neutral anchor.
func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// StartOfWeek returns the first day of the week row containing d.
func StartOfWeek(d civil.Date, weekStart time.Weekday) civil.Date {
	diff := (int(weekday(d)) - int(weekStart) + 7) % 7
	return d.AddDays(-diff)
}

// EndOfWeek returns the last day of the week row containing d.
func EndOfWeek(d civil.Date, weekStart time.Weekday) civil.Date {
	return StartOfWeek(d, weekStart).AddDays(6)
}

// IsWeekFirstDay reports whether d opens its week row.
func IsWeekFirstDay(d civil.Date, weekStart time.Weekday) bool {
	return weekday(d) == weekStart
}

// IsWeekLastDay reports whether d closes its week row.
func IsWeekLastDay(d civil.Date, weekStart time.Weekday) bool {
	return weekday(d) == (weekStart+6)%7
}

// WeekdayOrder lists the seven weekdays starting at weekStart.
func WeekdayOrder(weekStart time.Weekday) []time.Weekday {
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = (weekStart + time.Weekday(i)) % 7
	}
	return out
}

// ParseWeekday accepts English weekday names ("sunday", "Mon") and
// the numbers 0 (Sunday) to 6 (Saturday).
func ParseWeekday(s string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if len(v) == 1 && v[0] >= '0' && v[0] <= '6' {
		return time.Weekday(v[0] - '0'), nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if v == name || (len(v) >= 3 && strings.HasPrefix(name, v)) {
			return wd, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}

func validWeekday(wd time.Weekday) bool {
	return wd >= time.Sunday && wd <= time.Saturday
}
