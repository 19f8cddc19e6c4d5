package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Grid is the set of full week rows needed to display one month.
type Grid struct {
	MonthStart civil.Date
	MonthEnd   civil.Date
	GridStart  civil.Date
	GridEnd    civil.Date
	WeekStart  time.Weekday

	// Days holds every date from GridStart to GridEnd inclusive, ascending.
	Days []civil.Date
}

// ComputeGrid returns the grid for the month containing ref.
//
// GridStart is the start of the week containing the first of the month and
// GridEnd the end of the week containing its last day, so len(Days) is
// always a multiple of 7.
func ComputeGrid(ref civil.Date, weekStart time.Weekday) (Grid, error) {
	if ref == (civil.Date{}) || !ref.IsValid() {
		return Grid{}, fmt.Errorf("%w: reference date %q", ErrInvalidInput, ref)
	}
	if !validWeekday(weekStart) {
		return Grid{}, fmt.Errorf("%w: week start %d", ErrInvalidInput, weekStart)
	}

	monthStart := MonthStart(ref)
	monthEnd := MonthEnd(ref)

	g := Grid{
		MonthStart: monthStart,
		MonthEnd:   monthEnd,
		GridStart:  StartOfWeek(monthStart, weekStart),
		GridEnd:    EndOfWeek(monthEnd, weekStart),
		WeekStart:  weekStart,
	}

	n := g.GridEnd.DaysSince(g.GridStart) + 1
	g.Days = make([]civil.Date, n)
	for i := range g.Days {
		g.Days[i] = g.GridStart.AddDays(i)
	}
	return g, nil
}

// MonthStart is the first day of d's month.
func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd is the last day of d's month.
func MonthEnd(d civil.Date) civil.Date {
	return civil.DateOf(time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC))
}

// AddMonths moves d by n months, clamping the day to the length of the
// target month (Jan 31 + 1 month is Feb 28/29).
func AddMonths(d civil.Date, n int) civil.Date {
	first := civil.DateOf(time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
	last := MonthEnd(first)
	day := d.Day
	if day > last.Day {
		day = last.Day
	}
	return civil.Date{Year: first.Year, Month: first.Month, Day: day}
}

// SameMonth reports whether a and b fall in the same year and month.
func SameMonth(a, b civil.Date) bool {
	return a.Year == b.Year && a.Month == b.Month
}

// Weeks splits Days into 7-day rows.
func (g Grid) Weeks() [][]civil.Date {
	weeks := make([][]civil.Date, 0, len(g.Days)/7)
	for i := 0; i+7 <= len(g.Days); i += 7 {
		weeks = append(weeks, g.Days[i:i+7])
	}
	return weeks
}

// InMonth reports whether d belongs to the grid's month rather than the
// leading or trailing spillover days.
func (g Grid) InMonth(d civil.Date) bool {
	return !d.Before(g.MonthStart) && !d.After(g.MonthEnd)
}

// Contains reports whether d is rendered by the grid at all.
func (g Grid) Contains(d civil.Date) bool {
	return !d.Before(g.GridStart) && !d.After(g.GridEnd)
}
