package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appLog "fullcal/internal/log"
)

const testConfig = `
listen: 127.0.0.1:0
week_start: sunday
locale: en-US
events_file: events.yaml
`

const testEvents = `
events:
  - title: Frank Green
    start: 2024-11-20
    end: 2024-11-25
    color: red-500
  - title: Onboard
    start: 2024-11-14 09:00
    end: 2024-11-14 10:00
    price:
      value: "100"
      currency: USD
`

func setup(t *testing.T) string {
	t.Helper()
	appLog.SetOutput(io.Discard)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "events.yaml"), []byte(testEvents), 0o600); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, "config.yaml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.Writer = &out
	err := root.Run(context.Background(), append([]string{"fullcal"}, args...))
	return out.String(), err
}

func TestGridCommand(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "grid", "--month", "2024-11", "--week-start", "monday")
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if !strings.HasPrefix(out, "2024-10-28 .. 2024-12-01 (35 days)") {
		t.Errorf("unexpected grid output:\n%s", out)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 6 {
		t.Errorf("expected header and 5 weeks, got %d lines", len(lines))
	}

	if _, err := run(t, "--config", cfg, "grid", "--month", "2024-13"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestDayCommand(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "day", "2024-11-24")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if !strings.Contains(out, "Frank Green") || !strings.Contains(out, "row-first=true") {
		t.Errorf("unexpected day output:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "day", "2024-11-14")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if !strings.Contains(out, "Onboard") || !strings.Contains(out, "9:00 AM") {
		t.Errorf("unexpected day output:\n%s", out)
	}

	if _, err := run(t, "--config", cfg, "day"); err == nil {
		t.Error("expected error without a date")
	}
}

func TestShowCommand(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "show", "--month", "2024-11")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "November 2024") || !strings.Contains(out, "Frank Green") {
		t.Errorf("unexpected show output:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	cfg := setup(t)
	dest := filepath.Join(t.TempDir(), "nov.pdf")
	if _, err := run(t, "--config", cfg, "export", "--month", "2024-11", "--format", "pdf", "--out", dest); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected a PDF file")
	}

	if _, err := run(t, "--config", cfg, "export", "--format", "odt", "--out", dest); err == nil {
		t.Error("expected error for unsupported format")
	}
}
