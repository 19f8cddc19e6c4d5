package export

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"fullcal/internal/view"
)

const (
	pageMargin = 10.0
	// usable landscape A4 width split into seven columns
	colWidth   = (297.0 - 2*pageMargin) / 7
	lineHeight = 5.0
)

// PDF renders the month as a landscape A4 grid.
func PDF(p view.Page) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(p.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	for _, name := range p.Weekdays {
		pdf.CellFormat(colWidth, 7, tr(name), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	_, pageHeight := pdf.GetPageSize()
	top := pdf.GetY()
	rowHeight := (pageHeight - pageMargin - top) / float64(len(p.Month.Weeks))
	maxLanes := int(rowHeight/lineHeight) - 1

	for w, week := range p.Month.Weeks {
		y := top + float64(w)*rowHeight
		for i, c := range week {
			x := pageMargin + float64(i)*colWidth
			pdf.SetDrawColor(209, 213, 219)
			if c.InMonth {
				pdf.SetFillColor(255, 255, 255)
			} else {
				pdf.SetFillColor(243, 244, 246)
			}
			pdf.Rect(x, y, colWidth, rowHeight, "FD")

			pdf.SetTextColor(17, 24, 39)
			if !c.InMonth {
				pdf.SetTextColor(156, 163, 175)
			}
			style := ""
			if c.IsToday {
				style = "B"
			}
			pdf.SetFont("Arial", style, 9)
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidth-1, lineHeight, p.Locale.DayNumber(c.Date), "", 0, "R", false, 0, "")

			pdf.SetFont("Arial", "", 8)
			for lane, pl := range c.Events {
				if lane == maxLanes-1 && len(c.Events) > maxLanes {
					pdf.SetTextColor(107, 114, 128)
					pdf.SetXY(x, y+float64(lane+1)*lineHeight)
					pdf.CellFormat(colWidth, lineHeight-0.5, "+"+strconv.Itoa(len(c.Events)-lane), "", 0, "L", false, 0, "")
					break
				}
				r, g, b := rgb(pl.Event.Color.Hex())
				pdf.SetFillColor(r, g, b)
				if pl.Event.Color.Dark() {
					pdf.SetTextColor(255, 255, 255)
				} else {
					pdf.SetTextColor(17, 24, 39)
				}
				left, width := x, colWidth
				if pl.Flags.IsStartDay {
					left, width = x+1, colWidth-1
				}
				if pl.Flags.IsEndDay {
					width--
				}
				label := ""
				if pl.ShowTitle() {
					label = fit(pdf, tr(pl.Event.Title), width-1)
				}
				pdf.SetXY(left, y+float64(lane+1)*lineHeight)
				pdf.CellFormat(width, lineHeight-0.5, label, "", 0, "L", true, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit trims s until it fits width at the current font.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
