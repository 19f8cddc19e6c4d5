package calendar

import (
	"time"

	"cloud.google.com/go/civil"

	"fullcal/internal/model"
)

// DayCell is one rendered date with the events placed on it.
type DayCell struct {
	Date       civil.Date
	InMonth    bool
	IsToday    bool
	IsSelected bool
	Events     []Placement
}

// Month is a grid with every cell resolved, split into week rows.
type Month struct {
	Grid  Grid
	Weeks [][]DayCell
}

// MonthOptions carries the per-render state that only affects cell flags.
type MonthOptions struct {
	Today    civil.Date
	Selected civil.Date
}

// BuildMonth computes the grid for ref and places events on every day of it.
// Events are expected to be validated already; malformed ones simply never
// appear.
func BuildMonth(ref civil.Date, weekStart time.Weekday, events []model.CalendarEvent, opts MonthOptions) (Month, error) {
	g, err := ComputeGrid(ref, weekStart)
	if err != nil {
		return Month{}, err
	}

	// Only events touching the grid can be placed; narrow once instead of
	// scanning the full set for each of the 35 or 42 days.
	visible := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.EndDate().Before(g.GridStart) || ev.StartDate().After(g.GridEnd) {
			continue
		}
		visible = append(visible, ev)
	}

	m := Month{Grid: g}
	for _, week := range g.Weeks() {
		row := make([]DayCell, len(week))
		for i, d := range week {
			row[i] = DayCell{
				Date:       d,
				InMonth:    g.InMonth(d),
				IsToday:    d == opts.Today,
				IsSelected: d == opts.Selected,
				Events:     EventsForDay(d, visible, weekStart),
			}
		}
		m.Weeks = append(m.Weeks, row)
	}
	return m, nil
}

// Cell returns the cell for d, if the month renders it.
func (m Month) Cell(d civil.Date) (DayCell, bool) {
	if !m.Grid.Contains(d) {
		return DayCell{}, false
	}
	idx := d.DaysSince(m.Grid.GridStart)
	return m.Weeks[idx/7][idx%7], true
}
