package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     atomic.Pointer[slog.Logger]
	loggerOnce sync.Once
	levelVar   = new(slog.LevelVar)
)

// initLogger initializes the global logger to write text records to stderr.
func initLogger() {
	loggerOnce.Do(func() {
		levelVar.Set(slog.LevelInfo)
		logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar})))
	})
}

// SetOutput redirects log output. Mainly used by tests and the CLI when
// stdout carries the rendered calendar. Safe to call while other
// goroutines log.
func SetOutput(w io.Writer) {
	initLogger()
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})))
}

func SetLevel(l Level) {
	initLogger()
	switch l {
	case LevelDebug:
		levelVar.Set(slog.LevelDebug)
	case LevelError:
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

// ParseLevel maps a config value ("debug", "info", "error") to a Level.
// Unknown values fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(LevelDebug):
		return LevelDebug
	case string(LevelError):
		return LevelError
	default:
		return LevelInfo
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Load().Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Load().Info(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logger.Load().Error(msg, extended...)
}
