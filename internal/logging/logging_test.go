package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sadopc/sqlschema/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetupConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(config.LoggingConfig{Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("fetched columns", "adapter", "sqlite", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, "adapter=sqlite") || !strings.Contains(out, "count=3") {
		t.Errorf("missing attributes in %q", out)
	}
}

func TestSetupBadLevel(t *testing.T) {
	if _, _, err := Setup(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("Setup() with an unknown level should fail")
	}
}

func TestMultiHandler(t *testing.T) {
	var debug, warn bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(debug) = false, want true when any handler accepts it")
	}

	logger := slog.New(h).With("adapter", "mysql")
	logger.Debug("lookup")
	logger.Warn("slow")

	if !strings.Contains(debug.String(), "lookup") || !strings.Contains(debug.String(), "slow") {
		t.Errorf("debug handler output = %q", debug.String())
	}
	if strings.Contains(warn.String(), "lookup") {
		t.Errorf("warn handler received a debug record: %q", warn.String())
	}
	if !strings.Contains(warn.String(), "adapter=mysql") {
		t.Errorf("WithAttrs not propagated: %q", warn.String())
	}
}
