package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"fullcal/internal/locale"
	"fullcal/internal/model"
	"fullcal/internal/view"
)

func nov(day int) civil.Date {
	return civil.Date{Year: 2024, Month: time.November, Day: day}
}

func testPage(t *testing.T, tag string) view.Page {
	t.Helper()
	loc, err := locale.New(tag)
	if err != nil {
		t.Fatal(err)
	}
	price, err := model.ParsePrice("100.00", "BRL")
	if err != nil {
		t.Fatal(err)
	}
	onboard, err := model.NewAllDayEvent("Onboard", nov(14), nov(14),
		model.WithParticipants(model.Participant{Name: "John doe", Role: "Organizer"}),
		model.WithDetails("lorem ipsum"),
		model.WithPrice(price),
		model.WithColor(model.MustColor("green-500")))
	if err != nil {
		t.Fatal(err)
	}
	frank, err := model.NewAllDayEvent("Frank Green", nov(20), nov(25), model.WithColor(model.MustColor("red-200")))
	if err != nil {
		t.Fatal(err)
	}
	// Starts before the grid; listed once from the first grid day.
	early, err := model.NewAllDayEvent("Março trip", civil.Date{Year: 2024, Month: time.October, Day: 20}, nov(2))
	if err != nil {
		t.Fatal(err)
	}
	p, err := view.Build(loc, time.Sunday, nov(1), nov(14), nov(14), []model.CalendarEvent{onboard, frank, early})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestMonthEventsListsEachOnce(t *testing.T) {
	got := monthEvents(testPage(t, "en-US"))
	var titles []string
	for _, ev := range got {
		titles = append(titles, ev.Title)
	}
	want := "Março trip,Onboard,Frank Green"
	if strings.Join(titles, ",") != want {
		t.Errorf("got %v, want %s", titles, want)
	}
}

func TestXLSX(t *testing.T) {
	out, err := XLSX(testPage(t, "en-US"))
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(monthSheet, "A1"); v != "November 2024" {
		t.Errorf("unexpected title %q", v)
	}
	if v, _ := f.GetCellValue(monthSheet, "A2"); v != "Sunday" {
		t.Errorf("unexpected first header %q", v)
	}
	// Row 3 is the first week, Oct 27..Nov 2; Nov 1 is the Friday column.
	if v, _ := f.GetCellValue(monthSheet, "F3"); !strings.HasPrefix(v, "1\n") || !strings.Contains(v, "…") {
		t.Errorf("unexpected Nov 1 cell %q", v)
	}
	if v, _ := f.GetCellValue(monthSheet, "A3"); !strings.Contains(v, "Março trip") {
		t.Errorf("expected continuing event titled on row start, got %q", v)
	}

	rows, err := f.GetRows(eventsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 events, got %d rows", len(rows))
	}
	onboard := rows[2]
	if onboard[0] != "Onboard" || onboard[3] != "John doe (Organizer)" || onboard[6] != "green-500" {
		t.Errorf("unexpected event row %v", onboard)
	}
	if !strings.Contains(onboard[5], "100") {
		t.Errorf("expected formatted price, got %q", onboard[5])
	}
}

func TestPDF(t *testing.T) {
	for _, tag := range []string{"en-US", "pt-BR"} {
		out, err := PDF(testPage(t, tag))
		if err != nil {
			t.Fatalf("%s: PDF: %v", tag, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF-")) {
			t.Errorf("%s: output is not a PDF", tag)
		}
	}
}

func TestRenderDispatch(t *testing.T) {
	p := testPage(t, "en-US")
	if _, err := Render("XLSX", p); err != nil {
		t.Errorf("xlsx: %v", err)
	}
	if _, err := Render("pdf", p); err != nil {
		t.Errorf("pdf: %v", err)
	}
	if _, err := Render("docx", p); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestRGB(t *testing.T) {
	r, g, b := rgb("#3b82f6")
	if r != 0x3b || g != 0x82 || b != 0xf6 {
		t.Errorf("got %d,%d,%d", r, g, b)
	}
	if r, g, b := rgb("nope"); r+g+b != 0 {
		t.Error("expected black for bad input")
	}
}
