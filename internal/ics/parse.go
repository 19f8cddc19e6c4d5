package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	ical "github.com/arran4/golang-ical"

	appLog "fullcal/internal/log"
	"fullcal/internal/model"
)

// ParseResult is the outcome of parsing one feed.
type ParseResult struct {
	Events []model.CalendarEvent
	// Skipped counts VEVENTs that could not become valid calendar events.
	Skipped int
	// RecurringUIDs lists events that carried an RRULE; only their first
	// instance is kept.
	RecurringUIDs []string
}

// Parse converts an ICS payload into calendar events.
//
//   - SUMMARY, DESCRIPTION map to title and details.
//   - ORGANIZER and ATTENDEE CN parameters become participants.
//   - DATE-valued DTSTART marks an all-day event; its exclusive DTEND is
//     turned into the inclusive last day.
//   - Timed events keep their wall-clock time in the feed's own zone.
//   - COLOR (RFC 7986) overrides the source color when it names a palette token.
func Parse(src Source, body []byte) (ParseResult, error) {
	var res ParseResult
	if len(body) == 0 {
		return res, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return res, err
	}

	for _, ve := range cal.Events() {
		ev, recurring, perr := parseVEvent(src, ve)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			res.Skipped++
			appLog.Error("ics vevent skipped", perr, "id", src.ID, "url", redactURL(src.URL))
			continue
		}
		if recurring {
			res.RecurringUIDs = append(res.RecurringUIDs, ve.Id())
		}
		res.Events = append(res.Events, ev)
	}

	if len(res.RecurringUIDs) > 0 {
		appLog.Info("ics recurring events reduced to first instance", "id", src.ID, "count", len(res.RecurringUIDs))
	}
	appLog.Info("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "event_count", len(res.Events), "skipped", res.Skipped)
	return res, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (model.CalendarEvent, bool, error) {
	ev := model.CalendarEvent{Color: src.Color}
	if !ev.Color.Valid() {
		ev.Color = model.DefaultColor
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = unescape(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Details = unescape(p.Value)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return ev, false, fmt.Errorf("%w: %q has no DTSTART", model.ErrInvalidEvent, ev.Title)
	}

	if isDateValue(dtStart) {
		start, err := parseDateValue(dtStart.Value)
		if err != nil {
			return ev, false, err
		}
		end := start
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			exclusive, err := parseDateValue(dtEnd.Value)
			if err != nil {
				return ev, false, err
			}
			if exclusive.Before(start) {
				return ev, false, fmt.Errorf("%w: %q ends before it starts", model.ErrInvalidEvent, ev.Title)
			}
			// DTEND is exclusive for DATE values.
			if exclusive.After(start) {
				end = exclusive.AddDays(-1)
			}
		}
		ev.AllDay = true
		ev.Start = civil.DateTime{Date: start}
		ev.End = civil.DateTime{Date: end}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return ev, false, err
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}
		// An event ending exactly at midnight does not occupy the next day.
		if end.After(start) && end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 {
			end = end.Add(-time.Second)
		}
		ev.Start = civil.DateTimeOf(start)
		ev.End = civil.DateTimeOf(end)
	}

	if p := ve.GetProperty(ical.ComponentProperty("COLOR")); p != nil {
		if c, err := model.ParseColor(p.Value); err == nil {
			ev.Color = c
		}
	}

	ev.Participants = participants(ve)

	if err := ev.Validate(); err != nil {
		return ev, false, err
	}

	recurring := ve.GetProperty(ical.ComponentPropertyRrule) != nil
	return ev, recurring, nil
}

func participants(ve *ical.VEvent) []model.Participant {
	var out []model.Participant
	if org := ve.GetProperty(ical.ComponentPropertyOrganizer); org != nil {
		if name := personName(org); name != "" {
			out = append(out, model.Participant{Name: name, Role: "Organizer"})
		}
	}
	for _, att := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		name := personName(att)
		if name == "" {
			continue
		}
		role := "Attendee"
		if vs, ok := att.ICalParameters["ROLE"]; ok && len(vs) > 0 {
			role = roleLabel(vs[0])
		}
		out = append(out, model.Participant{Name: name, Role: role})
	}
	return out
}

func personName(p *ical.IANAProperty) string {
	if vs, ok := p.ICalParameters["CN"]; ok && len(vs) > 0 && vs[0] != "" {
		return strings.Trim(vs[0], `"`)
	}
	return strings.TrimPrefix(strings.TrimPrefix(p.Value, "mailto:"), "MAILTO:")
}

func roleLabel(role string) string {
	switch strings.ToUpper(role) {
	case "CHAIR":
		return "Chair"
	case "OPT-PARTICIPANT":
		return "Optional"
	case "NON-PARTICIPANT":
		return "Observer"
	default:
		return "Attendee"
	}
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func parseDateValue(v string) (civil.Date, error) {
	t, err := time.Parse("20060102", strings.TrimSpace(v))
	if err != nil {
		return civil.Date{}, fmt.Errorf("ics date %q: %w", v, err)
	}
	return civil.DateOf(t), nil
}

var textUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescape(s string) string {
	return textUnescaper.Replace(s)
}
