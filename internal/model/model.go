package model

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrInvalidEvent is returned for events that cannot be placed on a calendar,
// e.g. an empty title or an interval whose start is after its end.
var ErrInvalidEvent = errors.New("invalid event")

// Participant is a person attached to an event, shown in the event tooltip.
type Participant struct {
	Name string `yaml:"name" json:"name"`
	Role string `yaml:"role" json:"role"`
}

// Price is an optional amount attached to an event.
type Price struct {
	Value    decimal.Decimal
	Currency currency.Unit
}

// ParsePrice builds a Price from a decimal string and an ISO 4217 code.
func ParsePrice(value, code string) (Price, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Price{}, fmt.Errorf("price value %q: %w", value, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return Price{}, fmt.Errorf("price currency %q: %w", code, err)
	}
	return Price{Value: v, Currency: unit}, nil
}

// CalendarEvent is a single event as supplied by the host. The calendar only
// reads events; it never mutates them.
//
// Start and End are both inclusive. For all-day events the time part is
// zero and only the dates matter.
type CalendarEvent struct {
	Title        string
	Details      string
	Participants []Participant

	Start  civil.DateTime
	End    civil.DateTime
	AllDay bool

	Price *Price
	Color Color
}

// NewEvent constructs and validates an event. A zero color is replaced
// with DefaultColor.
func NewEvent(title string, start, end civil.DateTime, opts ...EventOption) (CalendarEvent, error) {
	ev := CalendarEvent{
		Title: title,
		Start: start,
		End:   end,
		Color: DefaultColor,
	}
	for _, opt := range opts {
		opt(&ev)
	}
	if err := ev.Validate(); err != nil {
		return CalendarEvent{}, err
	}
	return ev, nil
}

// NewAllDayEvent is NewEvent for date-only intervals.
func NewAllDayEvent(title string, start, end civil.Date, opts ...EventOption) (CalendarEvent, error) {
	opts = append([]EventOption{func(e *CalendarEvent) { e.AllDay = true }}, opts...)
	return NewEvent(title, civil.DateTime{Date: start}, civil.DateTime{Date: end}, opts...)
}

// EventOption sets optional fields in NewEvent.
type EventOption func(*CalendarEvent)

func WithDetails(details string) EventOption {
	return func(e *CalendarEvent) { e.Details = details }
}

func WithParticipants(p ...Participant) EventOption {
	return func(e *CalendarEvent) { e.Participants = append([]Participant(nil), p...) }
}

func WithPrice(p Price) EventOption {
	return func(e *CalendarEvent) { e.Price = &p }
}

func WithColor(c Color) EventOption {
	return func(e *CalendarEvent) { e.Color = c }
}

// Validate checks the event invariants.
func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidEvent)
	}
	if !e.Start.IsValid() || !e.End.IsValid() {
		return fmt.Errorf("%w: %q has an invalid start or end", ErrInvalidEvent, e.Title)
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: %q starts %s after it ends %s", ErrInvalidEvent, e.Title, e.Start, e.End)
	}
	if !e.Color.Valid() {
		return fmt.Errorf("%w: %q: %w", ErrInvalidEvent, e.Title, ErrInvalidColor)
	}
	return nil
}

// StartDate is the first calendar day of the event.
func (e CalendarEvent) StartDate() civil.Date { return e.Start.Date }

// EndDate is the last calendar day of the event.
func (e CalendarEvent) EndDate() civil.Date { return e.End.Date }

// Days is the number of calendar days the event covers, or 0 if the interval
// is malformed.
func (e CalendarEvent) Days() int {
	n := e.End.Date.DaysSince(e.Start.Date) + 1
	if n < 0 {
		return 0
	}
	return n
}
