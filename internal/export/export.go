package export

import (
	"fmt"
	"strconv"
	"strings"

	"fullcal/internal/calendar"
	"fullcal/internal/metrics"
	"fullcal/internal/model"
	"fullcal/internal/view"
)

// Supported formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Render exports p in format and counts the attempt.
func Render(format string, p view.Page) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case FormatXLSX:
		out, err = XLSX(p)
	case FormatPDF:
		out, err = PDF(p)
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.IncExport(strings.ToLower(format), result)
	return out, err
}

// monthEvents lists each event visible on the page once, in grid order:
// on its start day, or on the first grid day when it began earlier.
func monthEvents(p view.Page) []model.CalendarEvent {
	var out []model.CalendarEvent
	for _, week := range p.Month.Weeks {
		for _, c := range week {
			for _, pl := range c.Events {
				if pl.Flags.IsStartDay || c.Date == p.Month.Grid.GridStart {
					out = append(out, pl.Event)
				}
			}
		}
	}
	return out
}

func participantsLine(ps []model.Participant) string {
	parts := make([]string, 0, len(ps))
	for _, person := range ps {
		if person.Role != "" {
			parts = append(parts, person.Name+" ("+person.Role+")")
			continue
		}
		parts = append(parts, person.Name)
	}
	return strings.Join(parts, ", ")
}

func chipLabel(pl calendar.Placement) string {
	if pl.ShowTitle() {
		return pl.Event.Title
	}
	return "…"
}

// rgb splits a "#rrggbb" palette value.
func rgb(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
