package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/urfave/cli/v3"

	"fullcal/internal/calendar"
	"fullcal/internal/capture"
	"fullcal/internal/export"
	appLog "fullcal/internal/log"
	"fullcal/internal/metrics"
	"fullcal/internal/term"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the month grid with its events to the terminal",
		Flags: viewFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			page, _, err := loadPage(ctx, cmd)
			if err != nil {
				metrics.ObserveRender("term", metrics.ResultError, time.Since(start))
				return err
			}
			fmt.Fprint(cmd.Root().Writer, term.Render(page))
			metrics.ObserveRender("term", metrics.ResultSuccess, time.Since(start))
			return nil
		},
	}
}

func gridCommand() *cli.Command {
	return &cli.Command{
		Name:  "grid",
		Usage: "print the dates of the month grid, one week per line",
		Flags: append(viewFlags(),
			&cli.BoolFlag{Name: "json", Usage: "print the grid as JSON"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			req, err := resolveRender(cmd, cfg)
			if err != nil {
				return err
			}
			g, err := calendar.ComputeGrid(req.month, req.weekStart)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(g)
			}
			fmt.Fprintf(out, "%s .. %s (%d days)\n", g.GridStart, g.GridEnd, len(g.Days))
			for _, week := range g.Weeks() {
				cells := make([]string, 0, len(week))
				for _, d := range week {
					mark := " "
					if !g.InMonth(d) {
						mark = "*"
					}
					cells = append(cells, d.String()+mark)
				}
				fmt.Fprintln(out, strings.Join(cells, " "))
			}
			return nil
		},
	}
}

func dayCommand() *cli.Command {
	return &cli.Command{
		Name:      "day",
		Usage:     "list the events placed on one date",
		ArgsUsage: "YYYY-MM-DD",
		Flags:     viewFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			raw := cmd.Args().First()
			if raw == "" {
				return fmt.Errorf("day: date argument is required")
			}
			d, err := civil.ParseDate(raw)
			if err != nil {
				return fmt.Errorf("day: %w: %q", calendar.ErrInvalidInput, raw)
			}
			page, events, err := loadPage(ctx, cmd)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			fmt.Fprintln(out, page.Locale.Date(d))
			placements := calendar.EventsForDay(d, events, page.WeekStart)
			if len(placements) == 0 {
				fmt.Fprintln(out, "  no events")
				return nil
			}
			for _, pl := range placements {
				tip := page.TooltipFor(pl.Event)
				fmt.Fprintf(out, "  %s  %s - %s", tip.Title, tip.Start, tip.End)
				if tip.Price != "" {
					fmt.Fprintf(out, "  %s", tip.Price)
				}
				fmt.Fprintf(out, "  [start=%t end=%t row-first=%t row-last=%t]\n",
					pl.Flags.IsStartDay, pl.Flags.IsEndDay, pl.Flags.IsWeekFirstDay, pl.Flags.IsWeekLastDay)
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the month as an XLSX workbook or PDF page",
		Flags: append(viewFlags(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: export.FormatXLSX, Usage: "xlsx or pdf"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default: fullcal-YYYY-MM.<format>)"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			page, _, err := loadPage(ctx, cmd)
			if err != nil {
				return err
			}
			format := strings.ToLower(cmd.String("format"))
			data, err := export.Render(format, page)
			if err != nil {
				return err
			}
			path := cmd.String("out")
			if path == "" {
				m := page.Month.Grid.MonthStart
				path = fmt.Sprintf("fullcal-%04d-%02d.%s", m.Year, int(m.Month), format)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			appLog.Info("month exported", "path", path, "format", format, "bytes", len(data))
			return nil
		},
	}
}

func captureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "screenshot the /calendar page of a running server to PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "month to capture as YYYY-MM (default: current month)"},
			&cli.StringFlag{Name: "week-start", Usage: "first weekday of each row (overrides the config file)"},
			&cli.StringFlag{Name: "url", Usage: "server base URL (default: http://<listen>)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "calendar.png", Usage: "PNG output path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			month := calendar.MonthStart(civil.DateOf(time.Now()))
			if raw := cmd.String("month"); raw != "" {
				if month, err = civil.ParseDate(raw + "-01"); err != nil {
					return fmt.Errorf("invalid --month %q: %w", raw, calendar.ErrInvalidInput)
				}
			}
			weekStart := cfg.Weekday()
			if raw := cmd.String("week-start"); raw != "" {
				if weekStart, err = calendar.ParseWeekday(raw); err != nil {
					return err
				}
			}
			base := cmd.String("url")
			if base == "" {
				base = "http://" + cfg.Listen
			}
			var user, pass string
			if cfg.BasicAuth != nil {
				user, pass = cfg.BasicAuth.Username, cfg.BasicAuth.Password
			}
			target, err := capture.MonthURL(base, month, weekStart, user, pass)
			if err != nil {
				return err
			}
			png, err := capture.CalendarPNG(ctx, capture.Options{
				URL:        target,
				OutputPath: cmd.String("out"),
				Width:      cfg.Capture.Width,
				Height:     cfg.Capture.Height,
				Timeout:    time.Duration(cfg.Capture.TimeoutSec) * time.Second,
			})
			if err != nil {
				return err
			}
			appLog.Info("calendar captured", "path", cmd.String("out"), "bytes", len(png))
			return nil
		},
	}
}
