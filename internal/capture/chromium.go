package capture

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/chromedp/chromedp"

	appLog "fullcal/internal/log"
)

// Default capture parameters. They match the desktop layout of /calendar.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 960
	DefaultTimeoutSec = 30
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar?month=2024-11".
	URL string

	// OutputPath is where the PNG screenshot is written. Empty keeps the
	// image in memory only.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation.
	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("capture: invalid URL %q", o.URL)
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return nil
}

// MonthURL builds the /calendar address of month on the server at base
// (e.g. "http://127.0.0.1:8080"). user and pass, when set, are embedded for
// basic auth.
func MonthURL(base string, month civil.Date, weekStart time.Weekday, user, pass string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/calendar")
	if err != nil {
		return "", err
	}
	if user != "" {
		u.User = url.UserPassword(user, pass)
	}
	q := url.Values{}
	q.Set("month", fmt.Sprintf("%04d-%02d", month.Year, int(month.Month)))
	q.Set("week_start", strings.ToLower(weekStart.String()))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CalendarPNG launches a headless Chromium instance via chromedp, navigates
// to opts.URL, waits for the page root to report data-ready="true" and
// returns a full-page PNG screenshot.
func CalendarPNG(parentCtx context.Context, opts Options) ([]byte, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.WindowSize(opts.Width, opts.Height),
		)...,
	)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(300 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	appLog.Debug("calendar captured", "bytes", len(png), "elapsed", time.Since(start).String())

	if opts.OutputPath != "" {
		if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
			return nil, fmt.Errorf("capture: failed to write PNG: %w", err)
		}
	}
	return png, nil
}
