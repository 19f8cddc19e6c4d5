package view

import (
	"time"

	"cloud.google.com/go/civil"

	"fullcal/internal/calendar"
	"fullcal/internal/locale"
	"fullcal/internal/model"
)

// Page is everything a renderer needs to draw one month.
type Page struct {
	Title     string
	Weekdays  []string
	Month     calendar.Month
	Prev      civil.Date
	Next      civil.Date
	Selected  civil.Date
	Today     civil.Date
	WeekStart time.Weekday
	Locale    locale.Provider
}

// Tooltip is the formatted detail block shown for an event chip.
type Tooltip struct {
	Title        string
	Participants []model.Participant
	Details      string
	Start        string
	End          string
	Price        string
}

// Build resolves month (any day in it) into a Page. It is the stateless
// counterpart of View.Render used by request-scoped hosts.
func Build(loc locale.Provider, weekStart time.Weekday, month, selected, today civil.Date, events []model.CalendarEvent) (Page, error) {
	m, err := calendar.BuildMonth(month, weekStart, events, calendar.MonthOptions{
		Today:    today,
		Selected: selected,
	})
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title:     loc.MonthTitle(m.Grid.MonthStart),
		Weekdays:  loc.WeekdayHeader(weekStart),
		Month:     m,
		Prev:      calendar.AddMonths(m.Grid.MonthStart, -1),
		Next:      calendar.AddMonths(m.Grid.MonthStart, 1),
		Selected:  selected,
		Today:     today,
		WeekStart: weekStart,
		Locale:    loc,
	}, nil
}

// TooltipFor formats ev with the page locale.
func (p Page) TooltipFor(ev model.CalendarEvent) Tooltip {
	return NewTooltip(p.Locale, ev)
}

// NewTooltip formats ev for display.
func NewTooltip(loc locale.Provider, ev model.CalendarEvent) Tooltip {
	t := Tooltip{
		Title:        ev.Title,
		Participants: ev.Participants,
		Details:      ev.Details,
	}
	if ev.AllDay {
		t.Start = loc.Date(ev.StartDate())
		t.End = loc.Date(ev.EndDate())
	} else {
		t.Start = loc.DateTime(ev.Start)
		t.End = loc.DateTime(ev.End)
	}
	if ev.Price != nil {
		t.Price = loc.Price(*ev.Price)
	}
	return t
}
