package calendar

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
)

func d(y int, m time.Month, day int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: day}
}

func TestComputeGridNovember2024Sunday(t *testing.T) {
	g, err := ComputeGrid(d(2024, time.November, 14), time.Sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.MonthStart != d(2024, time.November, 1) || g.MonthEnd != d(2024, time.November, 30) {
		t.Errorf("unexpected month bounds %s..%s", g.MonthStart, g.MonthEnd)
	}
	if g.GridStart != d(2024, time.October, 27) {
		t.Errorf("expected grid start 2024-10-27, got %s", g.GridStart)
	}
	if g.GridEnd != d(2024, time.November, 30) {
		t.Errorf("expected grid end 2024-11-30, got %s", g.GridEnd)
	}
	if len(g.Days) != 35 {
		t.Errorf("expected 35 days, got %d", len(g.Days))
	}
	if len(g.Weeks()) != 5 {
		t.Errorf("expected 5 week rows, got %d", len(g.Weeks()))
	}
}

func TestComputeGridNovember2024Monday(t *testing.T) {
	g, err := ComputeGrid(d(2024, time.November, 1), time.Monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.GridStart != d(2024, time.October, 28) {
		t.Errorf("expected grid start 2024-10-28, got %s", g.GridStart)
	}
	if g.GridEnd != d(2024, time.December, 1) {
		t.Errorf("expected grid end 2024-12-01, got %s", g.GridEnd)
	}
	if len(g.Days) != 35 {
		t.Errorf("expected 35 days, got %d", len(g.Days))
	}
}

func TestComputeGridSixRows(t *testing.T) {
	// March 2025 starts on a Saturday and has 31 days.
	g, err := ComputeGrid(d(2025, time.March, 31), time.Sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Days) != 42 {
		t.Errorf("expected 42 days, got %d", len(g.Days))
	}
	if g.GridEnd != d(2025, time.April, 5) {
		t.Errorf("expected grid end 2025-04-05, got %s", g.GridEnd)
	}
}

func TestComputeGridFourRows(t *testing.T) {
	// February 2026 starts on a Sunday and has 28 days.
	g, err := ComputeGrid(d(2026, time.February, 10), time.Sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.GridStart != g.MonthStart || g.GridEnd != g.MonthEnd {
		t.Errorf("expected grid to equal month, got %s..%s", g.GridStart, g.GridEnd)
	}
	if len(g.Days) != 28 {
		t.Errorf("expected 28 days, got %d", len(g.Days))
	}
}

func TestComputeGridInvariants(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			for ws := time.Sunday; ws <= time.Saturday; ws++ {
				ref := d(year, month, 15)
				g, err := ComputeGrid(ref, ws)
				if err != nil {
					t.Fatalf("%s ws=%s: unexpected error: %v", ref, ws, err)
				}
				if len(g.Days)%7 != 0 {
					t.Fatalf("%s ws=%s: %d days is not a multiple of 7", ref, ws, len(g.Days))
				}
				if g.GridStart.After(g.MonthStart) || g.MonthStart.After(g.MonthEnd) || g.MonthEnd.After(g.GridEnd) {
					t.Fatalf("%s ws=%s: bounds out of order", ref, ws)
				}
				if weekday(g.GridStart) != ws {
					t.Fatalf("%s ws=%s: grid starts on %s", ref, ws, weekday(g.GridStart))
				}
				if g.MonthStart.DaysSince(g.GridStart) > 6 || g.GridEnd.DaysSince(g.MonthEnd) > 6 {
					t.Fatalf("%s ws=%s: more than a week of spillover", ref, ws)
				}
				for i, day := range g.Days {
					if day != g.GridStart.AddDays(i) {
						t.Fatalf("%s ws=%s: day %d is %s", ref, ws, i, day)
					}
				}
				if g.Days[len(g.Days)-1] != g.GridEnd {
					t.Fatalf("%s ws=%s: last day %s != grid end %s", ref, ws, g.Days[len(g.Days)-1], g.GridEnd)
				}
			}
		}
	}
}

func TestComputeGridIdempotent(t *testing.T) {
	a, err := ComputeGrid(d(2024, time.February, 29), time.Monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ComputeGrid(d(2024, time.February, 29), time.Monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("grids differ (-first +second):\n%s", diff)
	}
}

func TestComputeGridInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		ref  civil.Date
		ws   time.Weekday
	}{
		{"zero date", civil.Date{}, time.Sunday},
		{"february 30", d(2024, time.February, 30), time.Sunday},
		{"month 13", civil.Date{Year: 2024, Month: 13, Day: 1}, time.Sunday},
		{"week start 7", d(2024, time.November, 1), time.Weekday(7)},
		{"negative week start", d(2024, time.November, 1), time.Weekday(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeGrid(tc.ref, tc.ws); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		in   civil.Date
		n    int
		want civil.Date
	}{
		{d(2024, time.January, 31), 1, d(2024, time.February, 29)},
		{d(2023, time.January, 31), 1, d(2023, time.February, 28)},
		{d(2024, time.November, 14), -1, d(2024, time.October, 14)},
		{d(2024, time.December, 5), 1, d(2025, time.January, 5)},
		{d(2024, time.January, 5), -1, d(2023, time.December, 5)},
		{d(2024, time.March, 31), -13, d(2023, time.February, 28)},
	}
	for _, tc := range cases {
		if got := AddMonths(tc.in, tc.n); got != tc.want {
			t.Errorf("AddMonths(%s, %d): expected %s, got %s", tc.in, tc.n, tc.want, got)
		}
	}
}

func TestGridInMonthAndContains(t *testing.T) {
	g, err := ComputeGrid(d(2024, time.November, 1), time.Sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.InMonth(d(2024, time.October, 31)) {
		t.Error("expected Oct 31 to be a spillover day")
	}
	if !g.Contains(d(2024, time.October, 31)) {
		t.Error("expected Oct 31 to be rendered")
	}
	if g.Contains(d(2024, time.December, 1)) {
		t.Error("expected Dec 1 to be outside the Sunday-start grid")
	}
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"sunday": time.Sunday,
		"Monday": time.Monday,
		"sat":    time.Saturday,
		"0":      time.Sunday,
		"6":      time.Saturday,
	}
	for in, want := range cases {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Errorf("ParseWeekday(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWeekday(%q): expected %s, got %s", in, want, got)
		}
	}
	for _, bad := range []string{"", "7", "mo", "someday"} {
		if _, err := ParseWeekday(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseWeekday(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestWeekdayOrder(t *testing.T) {
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	if diff := cmp.Diff(want, WeekdayOrder(time.Monday)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}
