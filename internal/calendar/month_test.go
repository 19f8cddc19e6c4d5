package calendar

import (
	"testing"
	"time"

	"fullcal/internal/model"
)

func TestBuildMonth(t *testing.T) {
	events := []model.CalendarEvent{
		allDay(t, "Bob Brown", d(2024, time.November, 16), d(2024, time.November, 17)),
		allDay(t, "Charlie Davis", d(2024, time.November, 14), d(2024, time.November, 15)),
		allDay(t, "Outside", d(2024, time.December, 10), d(2024, time.December, 12)),
		allDay(t, "Spill", d(2024, time.October, 25), d(2024, time.October, 28)),
	}

	m, err := BuildMonth(d(2024, time.November, 1), time.Sunday, events, MonthOptions{
		Today:    d(2024, time.November, 14),
		Selected: d(2024, time.November, 20),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(m.Weeks))
	}

	first := m.Weeks[0][0]
	if first.Date != d(2024, time.October, 27) || first.InMonth {
		t.Errorf("expected spillover Oct 27 first, got %+v", first)
	}
	if len(first.Events) != 1 || first.Events[0].Event.Title != "Spill" {
		t.Errorf("expected spillover event on Oct 27, got %v", titles(first.Events))
	}
	if !first.Events[0].ShowTitle() {
		t.Error("expected spillover event title on the first cell of the grid")
	}

	today, ok := m.Cell(d(2024, time.November, 14))
	if !ok {
		t.Fatal("expected Nov 14 cell")
	}
	if !today.IsToday || today.IsSelected || !today.InMonth {
		t.Errorf("unexpected flags for Nov 14: %+v", today)
	}
	if len(today.Events) != 1 || today.Events[0].Event.Title != "Charlie Davis" {
		t.Errorf("expected Charlie Davis on Nov 14, got %v", titles(today.Events))
	}

	sel, _ := m.Cell(d(2024, time.November, 20))
	if !sel.IsSelected {
		t.Error("expected Nov 20 to be selected")
	}

	for _, week := range m.Weeks {
		for _, cell := range week {
			for _, p := range cell.Events {
				if p.Event.Title == "Outside" {
					t.Fatalf("event outside the grid placed on %s", cell.Date)
				}
			}
		}
	}

	if _, ok := m.Cell(d(2024, time.December, 1)); ok {
		t.Error("expected Dec 1 to be outside the grid")
	}
}

func TestBuildMonthInvalidInput(t *testing.T) {
	if _, err := BuildMonth(d(2024, time.February, 30), time.Sunday, nil, MonthOptions{}); err == nil {
		t.Error("expected error for invalid reference date")
	}
}
