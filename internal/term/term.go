package term

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"fullcal/internal/calendar"
	"fullcal/internal/view"
)

// CellWidth is the column width of one day, borders excluded.
const CellWidth = 14

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center).
			Width(7 * CellWidth).
			MarginBottom(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Width(CellWidth).Align(lipgloss.Center)
	dayStyle     = lipgloss.NewStyle().Width(CellWidth).Align(lipgloss.Right).PaddingRight(1)
	otherStyle   = dayStyle.Faint(true)
	todayStyle   = dayStyle.Bold(true).Underline(true)
	selectStyle  = dayStyle.Reverse(true)
	chipStyle    = lipgloss.NewStyle().Width(CellWidth)
	emptyStyle   = lipgloss.NewStyle().Width(CellWidth)
	weekSepStyle = lipgloss.NewStyle().Faint(true)
)

// Render draws the month page as a text grid. Each week row lists the day
// numbers followed by one line per event lane; continuing events are drawn
// as bars and titled once per row.
func Render(p view.Page) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")

	headers := make([]string, 0, len(p.Weekdays))
	for _, name := range p.Weekdays {
		headers = append(headers, headerStyle.Render(shorten(name, CellWidth-1)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteString("\n")

	sep := weekSepStyle.Render(strings.Repeat("─", 7*CellWidth))
	for _, week := range p.Month.Weeks {
		b.WriteString(sep)
		b.WriteString("\n")
		b.WriteString(renderWeek(p, week))
	}
	b.WriteString(sep)
	b.WriteString("\n")
	return b.String()
}

func renderWeek(p view.Page, week []calendar.DayCell) string {
	var b strings.Builder

	numbers := make([]string, 0, len(week))
	lanes := 0
	for _, c := range week {
		numbers = append(numbers, cellStyle(c).Render(p.Locale.DayNumber(c.Date)))
		lanes = max(lanes, len(c.Events))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, numbers...))
	b.WriteString("\n")

	for lane := 0; lane < lanes; lane++ {
		chips := make([]string, 0, len(week))
		for _, c := range week {
			if lane >= len(c.Events) {
				chips = append(chips, emptyStyle.Render(""))
				continue
			}
			chips = append(chips, renderChip(c.Events[lane]))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
		b.WriteString("\n")
	}
	return b.String()
}

func cellStyle(c calendar.DayCell) lipgloss.Style {
	switch {
	case c.IsSelected:
		return selectStyle
	case c.IsToday:
		return todayStyle
	case !c.InMonth:
		return otherStyle
	default:
		return dayStyle
	}
}

func renderChip(pl calendar.Placement) string {
	left := " "
	if pl.Flags.IsStartDay {
		left = "▌"
	}
	right := " "
	if pl.Flags.IsEndDay {
		right = "▐"
	}
	inner := CellWidth - 2
	label := strings.Repeat("━", inner)
	if pl.ShowTitle() {
		label = shorten(pl.Event.Title, inner)
		label += strings.Repeat(" ", inner-utf8.RuneCountInString(label))
	}

	fg := lipgloss.Color("#ffffff")
	if !pl.Event.Color.Dark() {
		fg = lipgloss.Color("#111827")
	}
	style := chipStyle.
		Foreground(fg).
		Background(lipgloss.Color(pl.Event.Color.Hex()))
	return style.Render(left + label + right)
}

// shorten truncates s to n runes, marking the cut with an ellipsis.
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-1]) + "…"
}
