package calendar

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"fullcal/internal/model"
)

// Flags drive the continuity styling of an event chip on one day.
type Flags struct {
	IsStartDay     bool `json:"is_start_day"`
	IsEndDay       bool `json:"is_end_day"`
	IsWeekFirstDay bool `json:"is_week_first_day"`
	IsWeekLastDay  bool `json:"is_week_last_day"`
}

// Placement is one event as it appears on one day.
type Placement struct {
	Event model.CalendarEvent
	Flags Flags
}

// ShowTitle reports whether the chip carries the event label. The label is
// drawn once per week row: on the start day, or on the first day of each
// following row the event continues into.
func (p Placement) ShowTitle() bool {
	return p.Flags.IsStartDay || p.Flags.IsWeekFirstDay
}

// Covers reports whether day lies in the event's inclusive date interval.
// Only dates are compared; times of day are ignored. A malformed interval
// covers nothing.
func Covers(e model.CalendarEvent, day civil.Date) bool {
	start, end := e.StartDate(), e.EndDate()
	if end.Before(start) {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

// EventsForDay returns the events covering day, sorted by start date.
// Events sharing a start date keep their input order.
func EventsForDay(day civil.Date, events []model.CalendarEvent, weekStart time.Weekday) []Placement {
	var out []Placement
	for _, ev := range events {
		if !Covers(ev, day) {
			continue
		}
		out = append(out, Placement{
			Event: ev,
			Flags: Flags{
				IsStartDay:     day == ev.StartDate(),
				IsEndDay:       day == ev.EndDate(),
				IsWeekFirstDay: IsWeekFirstDay(day, weekStart),
				IsWeekLastDay:  IsWeekLastDay(day, weekStart),
			},
		})
	}

	slices.SortStableFunc(out, func(a, b Placement) int {
		return compareDates(a.Event.StartDate(), b.Event.StartDate())
	})
	return out
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// ValidEvents drops events that fail validation and reports how many were
// rejected.
func ValidEvents(events []model.CalendarEvent) ([]model.CalendarEvent, int) {
	out := make([]model.CalendarEvent, 0, len(events))
	rejected := 0
	for _, ev := range events {
		if ev.Validate() != nil {
			rejected++
			continue
		}
		out = append(out, ev)
	}
	return out, rejected
}
