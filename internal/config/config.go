package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fullcal/internal/calendar"
	"fullcal/internal/locale"
)

// NOTE: This file provides the configuration model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions.

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
	// Color is the palette token for events from this feed that carry no
	// COLOR property of their own (e.g. "green-500").
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// CaptureConfig controls headless screenshots of the month page.
type CaptureConfig struct {
	Width      int `yaml:"width" json:"width"`
	Height     int `yaml:"height" json:"height"`
	TimeoutSec int `yaml:"timeout_sec" json:"timeout_sec"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// WeekStart controls which weekday opens each grid row. Any English
	// weekday name is accepted; "sunday" is the default.
	WeekStart string `yaml:"week_start" json:"week_start"`

	// Locale selects month/day names and number formatting ("pt-BR", "en-US").
	Locale string `yaml:"locale" json:"locale"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used to reload the events file and ICS feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// EventsFile is an optional YAML file with locally defined events.
	EventsFile string `yaml:"events_file" json:"events_file"`

	// CacheDir holds the ICS HTTP cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultWeekStart   = "sunday"
	defaultRefreshCron = "*/15 * * * *"
	defaultCacheDir    = "./cache/ics-cache"
	defaultLogLevel    = "info"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      defaultListen,
		WeekStart:   defaultWeekStart,
		Locale:      locale.DefaultTag,
		LogLevel:    defaultLogLevel,
		RefreshCron: defaultRefreshCron,
		CacheDir:    defaultCacheDir,
		ICS:         []ICSConfig{},
		Capture: CaptureConfig{
			Width:      1280,
			Height:     960,
			TimeoutSec: 30,
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	// Unknown week starts fall back to sunday to avoid surprising layouts.
	if _, err := calendar.ParseWeekday(c.WeekStart); err != nil {
		c.WeekStart = defaultWeekStart
	}
	c.WeekStart = strings.ToLower(strings.TrimSpace(c.WeekStart))
	if _, err := locale.New(c.Locale); err != nil || c.Locale == "" {
		c.Locale = locale.DefaultTag
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = def.Capture.Width
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = def.Capture.Height
	}
	if c.Capture.TimeoutSec <= 0 {
		c.Capture.TimeoutSec = def.Capture.TimeoutSec
	}
}

// Weekday returns the configured week start. Normalize guarantees it parses.
func (c *Config) Weekday() time.Weekday {
	wd, err := calendar.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file in the same directory, then rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".fullcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
