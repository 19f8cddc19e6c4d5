package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"fullcal/internal/model"
)

const eventsYAML = `
events:
  - title: Onboard
    details: lorem ipsum
    people:
      - name: John doe
        role: Organizer
    start: today+1
    end: today+1
    price:
      value: "100.00"
      currency: BRL
    color: green-500
  - title: Frank Green
    start: 2024-11-20
    end: 2024-11-25
    color: bg-red-500
  - title: Call
    start: 2024-11-21 09:30
    end: 2024-11-21T10:00:00
  - title: Backwards
    start: 2024-11-25
    end: 2024-11-20
  - title: Bad color
    start: 2024-11-25
    color: mauve-500
`

func TestParseEventsFile(t *testing.T) {
	today := civil.Date{Year: 2024, Month: time.November, Day: 14}
	b, err := ParseEventsFile([]byte(eventsYAML), today)
	if err != nil {
		t.Fatalf("ParseEventsFile: %v", err)
	}
	if len(b.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(b.Events))
	}
	if len(b.Rejected) != 2 {
		t.Errorf("expected 2 rejected events, got %v", b.Rejected)
	}
	for _, rerr := range b.Rejected {
		if !errors.Is(rerr, model.ErrInvalidEvent) && !errors.Is(rerr, model.ErrInvalidColor) {
			t.Errorf("unexpected rejection reason: %v", rerr)
		}
	}

	onboard := b.Events[0]
	if onboard.StartDate() != today.AddDays(1) || !onboard.AllDay {
		t.Errorf("expected relative all-day date, got %+v", onboard)
	}
	if onboard.Price == nil || onboard.Price.Currency.String() != "BRL" {
		t.Errorf("expected BRL price, got %+v", onboard.Price)
	}
	if len(onboard.Participants) != 1 {
		t.Errorf("expected participant, got %+v", onboard.Participants)
	}

	frank := b.Events[1]
	if frank.Days() != 6 || frank.Color.String() != "red-500" {
		t.Errorf("unexpected Frank Green %+v", frank)
	}

	call := b.Events[2]
	if call.AllDay || call.Start.Time.Minute != 30 || call.End.Time.Hour != 10 {
		t.Errorf("unexpected timed event %+v", call)
	}
}

func TestParseEventsFileTimedStartDateEnd(t *testing.T) {
	const data = `
events:
  - title: Talk
    start: 2024-11-14 09:30
    end: 2024-11-14
  - title: Workshop
    start: 2024-11-14 13:00
    end: 2024-11-15
`
	b, err := ParseEventsFile([]byte(data), civil.Date{Year: 2024, Month: time.November, Day: 1})
	if err != nil {
		t.Fatalf("ParseEventsFile: %v", err)
	}
	if len(b.Rejected) != 0 || len(b.Events) != 2 {
		t.Fatalf("expected 2 events and no rejections, got %d / %v", len(b.Events), b.Rejected)
	}
	talk := b.Events[0]
	if talk.AllDay || talk.EndDate() != talk.StartDate() || talk.End.Time != endOfDay {
		t.Errorf("expected Talk to close at the end of its day, got %+v", talk)
	}
	if ws := b.Events[1]; ws.Days() != 2 || ws.End.Time != endOfDay {
		t.Errorf("unexpected Workshop %+v", ws)
	}
}

func TestParseEventsFileBadYAML(t *testing.T) {
	if _, err := ParseEventsFile([]byte("events: [:"), civil.Date{Year: 2024, Month: 1, Day: 1}); err == nil {
		t.Error("expected YAML error")
	}
}

type fakeLoader struct {
	name  string
	batch Batch
	err   error
	calls int
}

func (f *fakeLoader) Name() string { return f.name }

func (f *fakeLoader) Load(context.Context) (Batch, error) {
	f.calls++
	return f.batch, f.err
}

func mustEvent(t *testing.T, title string, day int) model.CalendarEvent {
	t.Helper()
	d := civil.Date{Year: 2024, Month: time.November, Day: day}
	ev, err := model.NewAllDayEvent(title, d, d)
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestStoreRefreshKeepsLastGood(t *testing.T) {
	file := &fakeLoader{name: "file", batch: Batch{Events: []model.CalendarEvent{mustEvent(t, "A", 1)}}}
	feed := &fakeLoader{name: "ics", batch: Batch{Events: []model.CalendarEvent{mustEvent(t, "B", 2)}}}
	s := NewStore(file, feed)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := s.Snapshot(); len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if s.UpdatedAt().IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	feed.err = errors.New("feed down")
	file.batch = Batch{Events: []model.CalendarEvent{mustEvent(t, "A2", 3)}}
	if err := s.Refresh(context.Background()); err == nil {
		t.Error("expected refresh error when a loader fails")
	}
	got := s.Snapshot()
	if len(got) != 2 || got[0].Title != "A2" || got[1].Title != "B" {
		t.Errorf("expected failed loader to keep its events, got %+v", got)
	}
}

func TestStoreDropsInvalidEvents(t *testing.T) {
	bad := model.CalendarEvent{
		Title: "Backwards",
		Start: civil.DateTime{Date: civil.Date{Year: 2024, Month: 11, Day: 5}},
		End:   civil.DateTime{Date: civil.Date{Year: 2024, Month: 11, Day: 1}},
		Color: model.DefaultColor,
	}
	l := &fakeLoader{name: "file", batch: Batch{Events: []model.CalendarEvent{bad, mustEvent(t, "Good", 4)}}}
	s := NewStore(l)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := s.Snapshot(); len(got) != 1 || got[0].Title != "Good" {
		t.Errorf("expected only the valid event, got %+v", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewStore(&fakeLoader{name: "file", batch: Batch{Events: []model.CalendarEvent{mustEvent(t, "A", 1)}}})
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	snap[0].Title = "mutated"
	if s.Snapshot()[0].Title != "A" {
		t.Error("expected snapshot mutation not to leak into the store")
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	if err := os.WriteFile(path, []byte(eventsYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	l := &FileLoader{Path: path, Now: func() time.Time { return time.Date(2024, 11, 14, 12, 0, 0, 0, time.UTC) }}
	b, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Events) != 3 {
		t.Errorf("expected 3 events, got %d", len(b.Events))
	}

	missing := &FileLoader{Path: filepath.Join(t.TempDir(), "nope.yaml")}
	if _, err := missing.Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}

	b, err = LoadFile(path)
	if err != nil || len(b.Events) != 3 {
		t.Errorf("LoadFile: %d events, err %v", len(b.Events), err)
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	if _, err := NewScheduler(NewStore(), "not a cron spec", time.Second); err == nil {
		t.Error("expected error for invalid cron spec")
	}
	s, err := NewScheduler(NewStore(), "*/5 * * * *", time.Second)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	defer cancel()
	if s.Next().IsZero() {
		t.Error("expected a scheduled next run")
	}
}
