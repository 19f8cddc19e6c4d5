package export

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"fullcal/internal/view"
)

const (
	monthSheet  = "month"
	eventsSheet = "events"
)

// XLSX renders the month grid on one sheet and the event list on another.
func XLSX(p view.Page) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", monthSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(eventsSheet); err != nil {
		return nil, err
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "D1D5DB", Style: 1},
			{Type: "right", Color: "D1D5DB", Style: 1},
			{Type: "top", Color: "D1D5DB", Style: 1},
			{Type: "bottom", Color: "D1D5DB", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(monthSheet, "A1", p.Title)
	_ = f.MergeCell(monthSheet, "A1", "G1")
	_ = f.SetCellStyle(monthSheet, "A1", "G1", bold)
	_ = f.SetColWidth(monthSheet, "A", "G", 20)

	for i, name := range p.Weekdays {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(monthSheet, cell, name)
		_ = f.SetCellStyle(monthSheet, cell, cell, bold)
	}

	for w, week := range p.Month.Weeks {
		row := w + 3
		lines := 1
		for i, c := range week {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			text := []string{p.Locale.DayNumber(c.Date)}
			for _, pl := range c.Events {
				text = append(text, chipLabel(pl))
			}
			lines = max(lines, len(text))
			_ = f.SetCellValue(monthSheet, cell, strings.Join(text, "\n"))
			_ = f.SetCellStyle(monthSheet, cell, cell, wrap)
		}
		_ = f.SetRowHeight(monthSheet, row, float64(15*lines))
	}

	header := []string{"Title", "Start", "End", "Participants", "Details", "Price", "Color"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(eventsSheet, cell, h)
		_ = f.SetCellStyle(eventsSheet, cell, cell, bold)
	}
	_ = f.SetColWidth(eventsSheet, "A", "G", 22)

	fills := map[string]int{}
	for i, ev := range monthEvents(p) {
		row := i + 2
		tip := p.TooltipFor(ev)
		values := []any{ev.Title, tip.Start, tip.End, participantsLine(ev.Participants), ev.Details, tip.Price, ev.Color.String()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(eventsSheet, cell, v)
		}

		hex := ev.Color.Hex()
		style, ok := fills[hex]
		if !ok {
			font := "FFFFFF"
			if !ev.Color.Dark() {
				font = "111827"
			}
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(hex, "#")}},
				Font: &excelize.Font{Color: font},
			})
			if err != nil {
				return nil, err
			}
			fills[hex] = style
		}
		colorCell, _ := excelize.CoordinatesToCellName(7, row)
		_ = f.SetCellStyle(eventsSheet, colorCell, colorCell, style)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
