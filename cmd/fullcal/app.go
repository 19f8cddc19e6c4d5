package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/urfave/cli/v3"

	"fullcal/internal/calendar"
	"fullcal/internal/config"
	"fullcal/internal/ics"
	"fullcal/internal/locale"
	appLog "fullcal/internal/log"
	"fullcal/internal/model"
	"fullcal/internal/source"
	"fullcal/internal/view"
)

// viewFlags are shared by every command that renders a month.
func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "month to render as YYYY-MM (default: current month)"},
		&cli.StringFlag{Name: "selected", Usage: "selected date as YYYY-MM-DD (default: today)"},
		&cli.StringFlag{Name: "week-start", Usage: "first weekday of each row (overrides the config file)"},
		&cli.StringFlag{Name: "locale", Usage: "pt-BR or en-US (overrides the config file)"},
	}
}

// loadConfig reads the config file named by --config and applies the
// global overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	// Relative paths in the config are resolved against its directory.
	base := filepath.Dir(path)
	if cfg.EventsFile != "" && !filepath.IsAbs(cfg.EventsFile) {
		cfg.EventsFile = filepath.Join(base, cfg.EventsFile)
	}
	return cfg, nil
}

// buildStore wires the configured event sources into a Store.
func buildStore(cfg *config.Config) (*source.Store, error) {
	var loaders []source.Loader
	if cfg.EventsFile != "" {
		loaders = append(loaders, &source.FileLoader{Path: cfg.EventsFile})
	}

	feeds := make([]ics.Source, 0, len(cfg.ICS))
	for _, c := range cfg.ICS {
		if c.URL == "" {
			continue
		}
		id := c.ID
		if id == "" {
			id = c.Name
		}
		if id == "" {
			id = c.URL
		}
		color := model.DefaultColor
		if c.Color != "" {
			parsed, err := model.ParseColor(c.Color)
			if err != nil {
				return nil, fmt.Errorf("ics source %s: %w", id, err)
			}
			color = parsed
		}
		feeds = append(feeds, ics.Source{ID: id, URL: c.URL, Color: color})
	}
	if len(feeds) > 0 {
		fetcher := ics.NewFetcher(cfg.CacheDir, &http.Client{Timeout: 30 * time.Second})
		loaders = append(loaders, &source.FeedLoader{Fetcher: fetcher, Sources: feeds})
	}
	return source.NewStore(loaders...), nil
}

// renderRequest is the resolved month/selection/locale for one render.
type renderRequest struct {
	month     civil.Date
	selected  civil.Date
	today     civil.Date
	weekStart time.Weekday
	locale    locale.Provider
}

func resolveRender(cmd *cli.Command, cfg *config.Config) (renderRequest, error) {
	today := civil.DateOf(time.Now())
	req := renderRequest{
		month:     calendar.MonthStart(today),
		selected:  today,
		today:     today,
		weekStart: cfg.Weekday(),
	}
	if raw := cmd.String("month"); raw != "" {
		d, err := civil.ParseDate(raw + "-01")
		if err != nil {
			return req, fmt.Errorf("invalid --month %q: %w", raw, calendar.ErrInvalidInput)
		}
		req.month = d
	}
	if raw := cmd.String("selected"); raw != "" {
		d, err := civil.ParseDate(raw)
		if err != nil {
			return req, fmt.Errorf("invalid --selected %q: %w", raw, calendar.ErrInvalidInput)
		}
		req.selected = d
	}
	if raw := cmd.String("week-start"); raw != "" {
		wd, err := calendar.ParseWeekday(raw)
		if err != nil {
			return req, err
		}
		req.weekStart = wd
	}
	tag := cfg.Locale
	if raw := cmd.String("locale"); raw != "" {
		tag = raw
	}
	loc, err := locale.New(tag)
	if err != nil {
		return req, err
	}
	req.locale = loc
	return req, nil
}

// loadPage loads every configured source once and builds the requested
// page. The loaded events are returned alongside for commands that look
// beyond the rendered grid.
func loadPage(ctx context.Context, cmd *cli.Command) (view.Page, []model.CalendarEvent, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return view.Page{}, nil, err
	}
	req, err := resolveRender(cmd, cfg)
	if err != nil {
		return view.Page{}, nil, err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return view.Page{}, nil, err
	}
	if err := store.Refresh(ctx); err != nil {
		// Partial data still renders.
		appLog.Error("some event sources failed", err)
	}

	v, err := view.New(view.Config{
		WeekStart: req.weekStart,
		Locale:    req.locale,
		Events:    store,
	}, req.selected)
	if err != nil {
		return view.Page{}, nil, err
	}
	v.GoTo(req.month)
	page, err := v.Render(req.today)
	return page, store.Snapshot(), err
}
