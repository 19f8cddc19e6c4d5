package web

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"fullcal/internal/calendar"
	"fullcal/internal/locale"
	"fullcal/internal/model"
	"fullcal/internal/view"
)

// gridDTO is the JSON response shape for /api/grid.
type gridDTO struct {
	MonthStart civil.Date   `json:"month_start"`
	MonthEnd   civil.Date   `json:"month_end"`
	GridStart  civil.Date   `json:"grid_start"`
	GridEnd    civil.Date   `json:"grid_end"`
	WeekStart  string       `json:"week_start"`
	Days       []civil.Date `json:"days"`
}

func newGridDTO(g calendar.Grid) gridDTO {
	return gridDTO{
		MonthStart: g.MonthStart,
		MonthEnd:   g.MonthEnd,
		GridStart:  g.GridStart,
		GridEnd:    g.GridEnd,
		WeekStart:  strings.ToLower(g.WeekStart.String()),
		Days:       g.Days,
	}
}

// dayDTO is the JSON response shape for /api/day.
type dayDTO struct {
	Date   civil.Date     `json:"date"`
	Events []placementDTO `json:"events"`
}

// placementDTO is one event as placed on a day, with display strings
// already formatted for the server locale.
type placementDTO struct {
	Title        string              `json:"title"`
	Details      string              `json:"details,omitempty"`
	Participants []model.Participant `json:"participants,omitempty"`
	AllDay       bool                `json:"all_day"`
	Start        civil.DateTime      `json:"start"`
	End          civil.DateTime      `json:"end"`
	Color        model.Color         `json:"color"`
	ColorHex     string              `json:"color_hex"`
	Price        string              `json:"price,omitempty"`
	ShowTitle    bool                `json:"show_title"`
	Flags        calendar.Flags      `json:"flags"`
	Tooltip      view.Tooltip        `json:"tooltip"`
}

func newPlacementDTO(loc locale.Provider, p calendar.Placement) placementDTO {
	tip := view.NewTooltip(loc, p.Event)
	return placementDTO{
		Title:        p.Event.Title,
		Details:      p.Event.Details,
		Participants: p.Event.Participants,
		AllDay:       p.Event.AllDay,
		Start:        p.Event.Start,
		End:          p.Event.End,
		Color:        p.Event.Color,
		ColorHex:     p.Event.Color.Hex(),
		Price:        tip.Price,
		ShowTitle:    p.ShowTitle(),
		Flags:        p.Flags,
		Tooltip:      tip,
	}
}

// cellDTO is one grid cell in /api/month.
type cellDTO struct {
	Date       civil.Date     `json:"date"`
	Label      string         `json:"label"`
	InMonth    bool           `json:"in_month"`
	IsToday    bool           `json:"is_today"`
	IsSelected bool           `json:"is_selected"`
	Events     []placementDTO `json:"events"`
}

// monthDTO is the JSON response shape for /api/month.
type monthDTO struct {
	Title     string      `json:"title"`
	Locale    string      `json:"locale"`
	WeekStart string      `json:"week_start"`
	Weekdays  []string    `json:"weekdays"`
	Prev      civil.Date  `json:"prev"`
	Next      civil.Date  `json:"next"`
	Today     civil.Date  `json:"today"`
	Selected  civil.Date  `json:"selected"`
	Weeks     [][]cellDTO `json:"weeks"`

	Added     *civil.Date   `json:"added,omitempty"`
	Opened    *placementDTO `json:"opened,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

func newMonthDTO(p view.Page, act action) monthDTO {
	out := monthDTO{
		Title:     p.Title,
		Locale:    p.Locale.Tag().String(),
		WeekStart: strings.ToLower(p.WeekStart.String()),
		Weekdays:  p.Weekdays,
		Prev:      p.Prev,
		Next:      p.Next,
		Today:     p.Today,
		Selected:  p.Selected,
		Weeks:     make([][]cellDTO, 0, len(p.Month.Weeks)),
	}
	for _, week := range p.Month.Weeks {
		row := make([]cellDTO, 0, len(week))
		for _, c := range week {
			cell := cellDTO{
				Date:       c.Date,
				Label:      p.Locale.DayNumber(c.Date),
				InMonth:    c.InMonth,
				IsToday:    c.IsToday,
				IsSelected: c.IsSelected,
				Events:     make([]placementDTO, 0, len(c.Events)),
			}
			for _, pl := range c.Events {
				cell.Events = append(cell.Events, newPlacementDTO(p.Locale, pl))
			}
			row = append(row, cell)
		}
		out.Weeks = append(out.Weeks, row)
	}
	out.Added = act.Added
	if act.Opened != nil {
		opened := newPlacementDTO(p.Locale, *act.Opened)
		out.Opened = &opened
	}
	return out
}

// htmlPage feeds templates/calendar.html.
type htmlPage struct {
	Title     string
	Lang      string
	AddLabel  string
	Weekdays  []string
	PrevLink  string
	NextLink  string
	CloseLink string
	Added     string
	Opened    *htmlChip
	Weeks     [][]htmlCell
}

type htmlCell struct {
	Date    string
	Label   string
	InMonth bool
	Today   bool
	Active  bool
	Link    string
	AddLink string
	Chips   []htmlChip
}

type htmlChip struct {
	Title     string
	ShowTitle bool
	Class     string
	Style     template.CSS
	Link      string
	Tooltip   view.Tooltip
}

func newHTMLPage(p view.Page, act action) htmlPage {
	month := func(d civil.Date) string { return d.String()[:len("2006-01")] }
	weekStart := strings.ToLower(p.WeekStart.String())
	link := func(m, sel civil.Date) string {
		return "/calendar?month=" + month(m) + "&selected=" + sel.String() + "&week_start=" + weekStart
	}
	shown := p.Month.Grid.MonthStart

	out := htmlPage{
		Title:     p.Title,
		Lang:      p.Locale.Tag().String(),
		AddLabel:  p.Locale.AddLabel(),
		Weekdays:  p.Weekdays,
		PrevLink:  link(p.Prev, p.Selected),
		NextLink:  link(p.Next, p.Selected),
		CloseLink: link(shown, p.Selected),
	}
	if act.Added != nil {
		out.Added = p.Locale.Date(*act.Added)
	}
	if act.Opened != nil {
		chip := newHTMLChip(p, *act.Opened, out.CloseLink)
		out.Opened = &chip
	}
	for _, week := range p.Month.Weeks {
		row := make([]htmlCell, 0, len(week))
		for _, c := range week {
			cellLink := link(shown, c.Date)
			cell := htmlCell{
				Date:    c.Date.String(),
				Label:   p.Locale.DayNumber(c.Date),
				InMonth: c.InMonth,
				Today:   c.IsToday,
				Active:  c.IsSelected,
				Link:    cellLink,
				AddLink: cellLink + "&add=" + c.Date.String(),
			}
			for i, pl := range c.Events {
				cell.Chips = append(cell.Chips, newHTMLChip(p, pl, cellLink+"&event="+strconv.Itoa(i)))
			}
			row = append(row, cell)
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out
}

// chipClasses rounds the chip only on the event's own first and last day.
// A chip cut by the end of a week row gets a closing border instead.
func chipClasses(f calendar.Flags) string {
	classes := []string{"chip"}
	if f.IsStartDay {
		classes = append(classes, "chip-start")
	}
	if f.IsEndDay {
		classes = append(classes, "chip-end")
	}
	if f.IsWeekLastDay && !f.IsEndDay {
		classes = append(classes, "chip-cut")
	}
	return strings.Join(classes, " ")
}

func newHTMLChip(p view.Page, pl calendar.Placement, href string) htmlChip {
	fg := "#ffffff"
	if !pl.Event.Color.Dark() {
		fg = "#111827"
	}
	return htmlChip{
		Title:     pl.Event.Title,
		ShowTitle: pl.ShowTitle(),
		Class:     chipClasses(pl.Flags),
		// CSS and fg are fixed palette values, never user text.
		Style:   template.CSS("background:" + pl.Event.Color.CSS() + ";color:" + fg),
		Link:    href,
		Tooltip: p.TooltipFor(pl.Event),
	}
}
