package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Options{Level: slog.LevelWarn}))
	logger.Info("hidden")
	logger.Warn("shown", "id", "n-1")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec["msg"] != "shown" || rec["id"] != "n-1" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestPrettyHandlerWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Options{Level: slog.LevelInfo, Pretty: true}))
	logger.Info("listening", "addr", ":8712")
	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, ":8712") {
		t.Fatalf("unexpected pretty output %q", out)
	}
}

func TestTeeHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	tee := &teeHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}
	logger := slog.New(tee).With("component", "test")
	logger.Debug("debug only")
	logger.Info("both")
	if strings.Contains(a.String(), "debug only") {
		t.Fatal("info handler should skip debug records")
	}
	if !strings.Contains(b.String(), "debug only") || !strings.Contains(b.String(), "component=test") {
		t.Fatalf("debug handler missing records: %q", b.String())
	}
	if !strings.Contains(a.String(), "both") || !strings.Contains(b.String(), "both") {
		t.Fatal("expected info record in both handlers")
	}
}
