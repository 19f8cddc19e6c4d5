package capture

import (
	"context"
	"net/url"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestOptionsNormalize(t *testing.T) {
	for _, bad := range []string{"", "calendar", "ftp://host/calendar", "http://"} {
		o := Options{URL: bad}
		if err := o.normalize(); err == nil {
			t.Errorf("expected error for URL %q", bad)
		}
	}

	o := Options{URL: "http://127.0.0.1:8080/calendar"}
	if err := o.normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.Timeout != DefaultTimeoutSec*time.Second {
		t.Errorf("defaults not applied: %+v", o)
	}
}

func TestCalendarPNGRejectsBadOptions(t *testing.T) {
	if _, err := CalendarPNG(context.Background(), Options{}); err == nil {
		t.Error("expected error before launching a browser")
	}
}

func TestMonthURL(t *testing.T) {
	raw, err := MonthURL("http://127.0.0.1:8080/", civil.Date{Year: 2024, Month: time.November, Day: 14}, time.Monday, "admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/calendar" || u.Query().Get("month") != "2024-11" || u.Query().Get("week_start") != "monday" {
		t.Errorf("unexpected URL %s", raw)
	}
	if pass, _ := u.User.Password(); u.User.Username() != "admin" || pass != "s3cret" {
		t.Errorf("expected credentials in URL, got %s", raw)
	}

	raw, _ = MonthURL("http://localhost:8080", civil.Date{Year: 2025, Month: time.March, Day: 1}, time.Sunday, "", "")
	if u, _ := url.Parse(raw); u.User != nil {
		t.Errorf("expected no credentials, got %s", raw)
	}
}
