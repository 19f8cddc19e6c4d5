package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fullcal/internal/calendar"
	"fullcal/internal/config"
	"fullcal/internal/locale"
	appLog "fullcal/internal/log"
	"fullcal/internal/metrics"
	"fullcal/internal/model"
	"fullcal/internal/view"
)

// Server renders the month calendar as HTML and JSON.
type Server struct {
	cfg    *config.Config
	loc    locale.Provider
	events view.EventSource
	mux    *http.ServeMux
	tmpl   *template.Template
	hooks  view.Callbacks

	// now is the clock used for "today"; tests pin it.
	now func() time.Time
}

//go:embed templates/*.html
var templateFS embed.FS

var errBadParam = errors.New("bad parameter")

// NewServer constructs a Server reading events from events on every request.
func NewServer(cfg *config.Config, events view.EventSource) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("web: config is nil")
	}
	loc, err := locale.New(cfg.Locale)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = view.StaticEvents(nil)
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	s := &Server{
		cfg:    cfg,
		loc:    loc,
		events: events,
		mux:    http.NewServeMux(),
		tmpl:   tmpl,
		now:    time.Now,
	}
	s.hooks = defaultCallbacks()
	s.registerRoutes()
	return s, nil
}

// defaultCallbacks log and count every action coming from the page. The
// server has no event store of its own, so adding and opening stop here.
func defaultCallbacks() view.Callbacks {
	return view.Callbacks{
		OnMonthChange: func(month civil.Date) {
			metrics.IncAction("navigate")
			appLog.Debug("month changed", "month", month.String())
		},
		OnSelectDate: func(day civil.Date) {
			metrics.IncAction("select")
			appLog.Debug("date selected", "date", day.String())
		},
		OnAddEvent: func(day civil.Date) {
			metrics.IncAction("add")
			appLog.Info("add event requested", "date", day.String())
		},
		OnClickEvent: func(ev model.CalendarEvent) {
			metrics.IncAction("open")
			appLog.Info("event opened", "title", ev.Title, "start", ev.Start.String())
		},
	}
}

// SetCallbacks replaces the hooks fired by page actions. Call it before
// serving.
func (s *Server) SetCallbacks(cb view.Callbacks) {
	s.hooks = cb
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="fullcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/grid", s.handleGrid)
	s.mux.HandleFunc("GET /api/day", s.handleDay)
	s.mux.HandleFunc("GET /api/month", s.handleMonth)
	s.mux.HandleFunc("GET /calendar", s.handleCalendar)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) today() civil.Date {
	return civil.DateOf(s.now())
}

// handleGrid returns the raw date grid.
//
// GET /api/grid?month=2024-11&week_start=monday
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, err := parseMonth(q.Get("month"), s.today())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	weekStart, err := s.weekStart(q.Get("week_start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := calendar.ComputeGrid(month, weekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newGridDTO(g))
}

// handleDay returns the placements for one date.
//
// GET /api/day?date=2024-11-21&week_start=sunday
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	day, err := parseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	weekStart, err := s.weekStart(q.Get("week_start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	placements := calendar.EventsForDay(day, s.events.Snapshot(), weekStart)
	resp := dayDTO{Date: day, Events: make([]placementDTO, 0, len(placements))}
	for _, p := range placements {
		resp.Events = append(resp.Events, newPlacementDTO(s.loc, p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMonth returns the fully resolved month page.
//
// GET /api/month?month=2024-11&selected=2024-11-14
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, act, err := s.page(r)
	if err != nil {
		metrics.ObserveRender("json", metrics.ResultError, time.Since(start))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := newMonthDTO(page, act)
	if u, ok := s.events.(updatedAter); ok {
		if t := u.UpdatedAt(); !t.IsZero() {
			out.UpdatedAt = &t
		}
	}
	writeJSON(w, http.StatusOK, out)
	metrics.ObserveRender("json", metrics.ResultSuccess, time.Since(start))
}

// handleCalendar renders the month page as HTML. The root element carries
// data-ready="true" once rendered so headless capture can wait on it.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, act, err := s.page(r)
	if err != nil {
		metrics.ObserveRender("html", metrics.ResultError, time.Since(start))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf strings.Builder
	if err := s.tmpl.ExecuteTemplate(&buf, "calendar.html", newHTMLPage(page, act)); err != nil {
		appLog.Error("calendar template failed", err)
		metrics.ObserveRender("html", metrics.ResultError, time.Since(start))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(buf.String()))
	metrics.ObserveRender("html", metrics.ResultSuccess, time.Since(start))
}

// updatedAter is implemented by event sources that track their last refresh.
type updatedAter interface {
	UpdatedAt() time.Time
}

// action is what a request asked of the view besides rendering: an add on
// a date, or an opened event.
type action struct {
	Added  *civil.Date
	Opened *calendar.Placement
}

// page drives a request-scoped View through the query parameters:
//
//	month=YYYY-MM      displayed month (GoTo)
//	selected=DATE      selected date (SelectDate)
//	add=DATE           add action on a day (AddEvent)
//	event=N            opens the Nth event of the selected day (ClickEvent)
func (s *Server) page(r *http.Request) (view.Page, action, error) {
	var act action
	q := r.URL.Query()
	today := s.today()
	month, err := parseMonth(q.Get("month"), today)
	if err != nil {
		return view.Page{}, act, err
	}
	weekStart, err := s.weekStart(q.Get("week_start"))
	if err != nil {
		return view.Page{}, act, err
	}

	v, err := view.New(view.Config{
		WeekStart: weekStart,
		Locale:    s.loc,
		Events:    s.events,
		Callbacks: s.hooks,
	}, today)
	if err != nil {
		return view.Page{}, act, err
	}
	if raw := q.Get("selected"); raw != "" {
		selected, err := parseDate(raw)
		if err != nil {
			return view.Page{}, act, err
		}
		v.SelectDate(selected)
	}
	if month != v.Month() {
		v.GoTo(month)
	}
	if raw := q.Get("add"); raw != "" {
		day, err := parseDate(raw)
		if err != nil {
			return view.Page{}, act, err
		}
		v.AddEvent(day)
		act.Added = &day
	}

	page, err := v.Render(today)
	if err != nil {
		return view.Page{}, act, err
	}
	if raw := q.Get("event"); raw != "" {
		pl, err := placementAt(page, v.Selected(), raw)
		if err != nil {
			return view.Page{}, act, err
		}
		v.ClickEvent(pl.Event)
		act.Opened = &pl
	}
	return page, act, nil
}

// placementAt finds the event at index raw among the placements of day.
func placementAt(p view.Page, day civil.Date, raw string) (calendar.Placement, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return calendar.Placement{}, fmt.Errorf("%w: event %q", errBadParam, raw)
	}
	c, ok := p.Month.Cell(day)
	if !ok {
		return calendar.Placement{}, fmt.Errorf("%w: %s is not on the displayed grid", errBadParam, day)
	}
	if i >= len(c.Events) {
		return calendar.Placement{}, fmt.Errorf("%w: no event %d on %s", errBadParam, i, day)
	}
	return c.Events[i], nil
}

// parseMonth accepts "YYYY-MM" (or a full date) and returns the first of
// that month. Empty means the month of today.
func parseMonth(raw string, today civil.Date) (civil.Date, error) {
	if raw == "" {
		return calendar.MonthStart(today), nil
	}
	v := raw
	if len(v) == len("2006-01") {
		v += "-01"
	}
	d, err := civil.ParseDate(v)
	if err != nil || !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: month %q", errBadParam, raw)
	}
	return calendar.MonthStart(d), nil
}

func parseDate(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(raw)
	if err != nil || !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: date %q", errBadParam, raw)
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
