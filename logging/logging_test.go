package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOK bool
	}{
		{"", zerolog.InfoLevel, false},
		{" DEBUG ", zerolog.DebugLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"verbose", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseLevel(%q) = %v, %v, want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw          string
		want, wantOK bool
	}{
		{"", false, false},
		{"1", true, true},
		{"false", false, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		got, ok := parseBool(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseBool(%q) = %v, %v, want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:     "error",
		EnvLogTimestamp: "false",
		EnvLogNoColor:   "junk",
	}

	cfg := DefaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg, func(k string) string { return env[k] })

	want := Config{Level: zerolog.ErrorLevel, Timestamp: false, NoColor: false}
	if cfg != want {
		t.Fatalf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestConfigureReadsEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "trace")
	t.Setenv(EnvLogNoColor, "true")

	cfg := Configure(DefaultConfig(ProfileRuntime))
	if cfg.Level != zerolog.TraceLevel || !cfg.NoColor || !cfg.Timestamp {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New("edidtool", &buf, DefaultConfig(ProfileTest))

	log.Trace().Msg("hidden")
	log.Debug().Int("attempt", 2).Msg("retrying")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("trace message written at debug level: %q", out)
	}
	for _, want := range []string{"retrying", "attempt=2", "app=edidtool"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q misses %q", out, want)
		}
	}
	if strings.Contains(out, "<nil>") {
		t.Errorf("output %q prints an empty timestamp", out)
	}
}
