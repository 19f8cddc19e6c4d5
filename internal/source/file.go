package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"

	"fullcal/internal/model"
)

// fileEvent is the YAML shape of one event in the events file.
//
// start/end accept "2024-11-14" (all-day), "2024-11-14 09:30",
// "2024-11-14T09:30:00", or "today", "today+3", "today-1" relative to the
// loader's clock.
type fileEvent struct {
	Title   string              `yaml:"title"`
	Details string              `yaml:"details"`
	People  []model.Participant `yaml:"people"`
	Start   string              `yaml:"start"`
	End     string              `yaml:"end"`
	Price   *struct {
		Value    string `yaml:"value"`
		Currency string `yaml:"currency"`
	} `yaml:"price"`
	Color string `yaml:"color"`
}

type eventsFile struct {
	Events []fileEvent `yaml:"events"`
}

// FileLoader reads events from a YAML file.
type FileLoader struct {
	Path string
	// Now anchors relative dates; defaults to time.Now.
	Now func() time.Time
}

func (l *FileLoader) Name() string { return "file" }

// Load parses the file. Events that fail to parse or validate are
// returned as rejected rather than failing the whole file.
func (l *FileLoader) Load(_ context.Context) (Batch, error) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return loadFile(l.Path, civil.DateOf(now()))
}

// LoadFile reads the events file at path, resolving relative dates
// against the current day.
func LoadFile(path string) (Batch, error) {
	return loadFile(path, civil.DateOf(time.Now()))
}

func loadFile(path string, today civil.Date) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, err
	}
	return ParseEventsFile(data, today)
}

// ParseEventsFile decodes an events file. today anchors relative dates.
func ParseEventsFile(data []byte, today civil.Date) (Batch, error) {
	var f eventsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Batch{}, fmt.Errorf("events file: %w", err)
	}

	var b Batch
	for i, fe := range f.Events {
		ev, err := fe.toEvent(today)
		if err != nil {
			b.Rejected = append(b.Rejected, fmt.Errorf("event #%d: %w", i+1, err))
			continue
		}
		b.Events = append(b.Events, ev)
	}
	return b, nil
}

func (fe fileEvent) toEvent(today civil.Date) (model.CalendarEvent, error) {
	start, startAllDay, err := parseWhen(fe.Start, today)
	if err != nil {
		return model.CalendarEvent{}, fmt.Errorf("start: %w", err)
	}
	end := start
	endAllDay := startAllDay
	if fe.End != "" {
		end, endAllDay, err = parseWhen(fe.End, today)
		if err != nil {
			return model.CalendarEvent{}, fmt.Errorf("end: %w", err)
		}
		// A bare end date closes a timed event at the end of that day.
		if endAllDay && !startAllDay {
			end.Time = endOfDay
		}
	}

	opts := []model.EventOption{
		model.WithDetails(fe.Details),
		model.WithParticipants(fe.People...),
	}
	if startAllDay && endAllDay {
		opts = append(opts, func(e *model.CalendarEvent) { e.AllDay = true })
	}
	if fe.Color != "" {
		c, err := model.ParseColor(fe.Color)
		if err != nil {
			return model.CalendarEvent{}, err
		}
		opts = append(opts, model.WithColor(c))
	}
	if fe.Price != nil {
		p, err := model.ParsePrice(fe.Price.Value, fe.Price.Currency)
		if err != nil {
			return model.CalendarEvent{}, err
		}
		opts = append(opts, model.WithPrice(p))
	}
	return model.NewEvent(fe.Title, start, end, opts...)
}

var errEmptyDate = errors.New("empty date")

var endOfDay = civil.Time{Hour: 23, Minute: 59, Second: 59}

func parseWhen(s string, today civil.Date) (civil.DateTime, bool, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return civil.DateTime{}, false, errEmptyDate
	}
	if rest, ok := strings.CutPrefix(v, "today"); ok {
		offset := 0
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return civil.DateTime{}, false, fmt.Errorf("relative date %q: %w", s, err)
			}
			offset = n
		}
		return civil.DateTime{Date: today.AddDays(offset)}, true, nil
	}
	if d, err := civil.ParseDate(v); err == nil {
		return civil.DateTime{Date: d}, true, nil
	}
	v = strings.Replace(v, " ", "T", 1)
	if len(v) == len("2006-01-02T15:04") {
		v += ":00"
	}
	dt, err := civil.ParseDateTime(v)
	if err != nil {
		return civil.DateTime{}, false, err
	}
	return dt, false, nil
}
