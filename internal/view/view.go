package view

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"fullcal/internal/calendar"
	"fullcal/internal/locale"
	"fullcal/internal/model"
)

// EventSource supplies the current event snapshot for one render pass.
type EventSource interface {
	Snapshot() []model.CalendarEvent
}

// StaticEvents is an EventSource over a fixed slice.
type StaticEvents []model.CalendarEvent

func (s StaticEvents) Snapshot() []model.CalendarEvent { return s }

// Callbacks are host hooks fired by user actions. Nil callbacks are skipped.
type Callbacks struct {
	OnMonthChange func(month civil.Date)
	OnSelectDate  func(day civil.Date)
	OnAddEvent    func(day civil.Date)
	OnClickEvent  func(ev model.CalendarEvent)
}

// Config is the read-only part shared by every render.
type Config struct {
	WeekStart time.Weekday
	Locale    locale.Provider
	Events    EventSource
	Callbacks Callbacks
}

// View is the month calendar view-model: shared configuration plus the two
// pieces of mutable UI state, the displayed month and the selected date.
// A View is not safe for concurrent use; hosts drive it from a single
// event loop or build one per request.
type View struct {
	cfg      Config
	month    civil.Date
	selected civil.Date
}

// New returns a View showing the month of initial with initial selected.
func New(cfg Config, initial civil.Date) (*View, error) {
	if cfg.Locale == nil {
		return nil, fmt.Errorf("view: locale provider is required")
	}
	if cfg.Events == nil {
		cfg.Events = StaticEvents(nil)
	}
	if !initial.IsValid() {
		return nil, fmt.Errorf("view: %w: initial date %q", calendar.ErrInvalidInput, initial)
	}
	return &View{cfg: cfg, month: calendar.MonthStart(initial), selected: initial}, nil
}

// Month is the first day of the displayed month.
func (v *View) Month() civil.Date { return v.month }

// Selected is the currently selected date.
func (v *View) Selected() civil.Date { return v.selected }

func (v *View) NextMonth() { v.GoTo(calendar.AddMonths(v.month, 1)) }

func (v *View) PrevMonth() { v.GoTo(calendar.AddMonths(v.month, -1)) }

// GoTo displays the month containing d and notifies the host.
func (v *View) GoTo(d civil.Date) {
	v.month = calendar.MonthStart(d)
	if cb := v.cfg.Callbacks.OnMonthChange; cb != nil {
		cb(v.month)
	}
}

// SelectDate marks day as selected. The displayed month does not change,
// so clicking a spillover day keeps the current grid.
func (v *View) SelectDate(day civil.Date) {
	v.selected = day
	if cb := v.cfg.Callbacks.OnSelectDate; cb != nil {
		cb(day)
	}
}

// AddEvent forwards the add action for day to the host.
func (v *View) AddEvent(day civil.Date) {
	if cb := v.cfg.Callbacks.OnAddEvent; cb != nil {
		cb(day)
	}
}

// ClickEvent forwards the selected event to the host.
func (v *View) ClickEvent(ev model.CalendarEvent) {
	if cb := v.cfg.Callbacks.OnClickEvent; cb != nil {
		cb(ev)
	}
}

// Render resolves the displayed month into a Page.
func (v *View) Render(today civil.Date) (Page, error) {
	return Build(v.cfg.Locale, v.cfg.WeekStart, v.month, v.selected, today, v.cfg.Events.Snapshot())
}
