// Package logging builds the process-wide slog handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Options struct {
	Level  slog.Level
	Pretty bool
	// DevLog, when set, receives a debug level text copy of every record.
	DevLog string
}

// OptionsFromEnv reads ZONE_LOG_LEVEL, ZONE_LOG_PRETTY and DEV.
func OptionsFromEnv() Options {
	opts := Options{Level: ParseLevel(os.Getenv("ZONE_LOG_LEVEL"))}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ZONE_LOG_PRETTY"))) {
	case "1", "true", "yes":
		opts.Pretty = true
	}
	if strings.TrimSpace(os.Getenv("DEV")) != "" {
		opts.DevLog = "dev.log"
	}
	return opts
}

func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup installs the default logger and returns a func that closes the
// dev log file, if one was opened.
func Setup(w io.Writer, opts Options) func() {
	console := NewHandler(w, opts)
	if opts.DevLog == "" {
		slog.SetDefault(slog.New(console))
		return func() {}
	}
	file, err := os.Create(opts.DevLog)
	if err != nil {
		slog.SetDefault(slog.New(console))
		slog.Error("open log file", "path", opts.DevLog, "err", err)
		return func() {}
	}
	_, _ = fmt.Fprintf(file, "=== zone dev log start %s ===\n", time.Now().Format(time.RFC3339))
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(&teeHandler{handlers: []slog.Handler{console, fileHandler}}))
	return func() { _ = file.Close() }
}

// NewHandler returns a JSON handler, or a charmbracelet/log handler when
// opts.Pretty is set.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	if !opts.Pretty {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           charmLevel(opts.Level),
	})
}

func charmLevel(l slog.Level) log.Level {
	switch {
	case l <= slog.LevelDebug:
		return log.DebugLevel
	case l <= slog.LevelInfo:
		return log.InfoLevel
	case l <= slog.LevelWarn:
		return log.WarnLevel
	}
	return log.ErrorLevel
}
