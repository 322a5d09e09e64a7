package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{raw: "", want: zerolog.InfoLevel, ok: false},
		{raw: " Debug ", want: zerolog.DebugLevel, ok: true},
		{raw: "warning", want: zerolog.WarnLevel, ok: true},
		{raw: "off", want: zerolog.Disabled, ok: true},
		{raw: "diagnostics", want: zerolog.InfoLevel, ok: false},
		{raw: "loud", want: zerolog.InfoLevel, ok: false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseLevel(%q) = %v,%v want %v,%v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:     "error",
		EnvLogTimestamp: "false",
		EnvLogNoColor:   "1",
		EnvLogBypass:    "nope",
	}

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg, func(k string) string { return env[k] })
	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if cfg.Timestamp {
		t.Fatalf("expected timestamp disabled")
	}
	if !cfg.NoColor {
		t.Fatalf("expected no color")
	}
	if cfg.Bypass {
		t.Fatalf("invalid bool should leave bypass unset")
	}
}

func TestNewLoggerBypassWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{Level: zerolog.InfoLevel, Bypass: true})
	logger.Debug().Msg("hidden")
	logger.Info().Uint16("size", 24).Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	if !strings.Contains(out, `"size":24`) || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("unexpected output: %q", out)
	}
}
