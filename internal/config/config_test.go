package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/PabloGalante/organizer-agent/internal/observability"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "organizer.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindConfig_Explicit(t *testing.T) {
	path := writeConfig(t, "listen:\n  port: 9999\n")

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig(%q) error: %v", path, err)
	}
	if got != path {
		t.Errorf("FindConfig(%q) = %q, want %q", path, got, path)
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	if _, err := FindConfig("/nonexistent/organizer.yaml"); err == nil {
		t.Fatal("FindConfig with missing explicit path should error")
	}
}

func TestLoad_DefaultsWithMockBackend(t *testing.T) {
	t.Setenv("ORGANIZER_MODEL_BACKEND", "mock")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Listen.Addr() != ":8080" {
		t.Errorf("addr = %q, want %q", cfg.Listen.Addr(), ":8080")
	}
	if cfg.Model.MaxToolCalls != 8 {
		t.Errorf("max_tool_calls = %d, want 8", cfg.Model.MaxToolCalls)
	}
	if got := cfg.Reminders.Deadlines.Preference().String(); got != "2 days" {
		t.Errorf("deadlines preference = %q, want %q", got, "2 days")
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
listen:
  port: 9000
model:
  backend: gemini
  api_key: ${ORGANIZER_TEST_KEY}
  max_tool_calls: 4
organizer:
  current_user: Sam
  timezone: Europe/Madrid
reminders:
  enabled: true
  schedule: "*/5 * * * *"
  deadlines: {amount: 12, unit: hours}
  events: {amount: 30, unit: minutes}
log_level: debug
`)
	t.Setenv("ORGANIZER_TEST_KEY", "secret123")
	t.Setenv("ORGANIZER_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model.APIKey != "secret123" {
		t.Errorf("api_key = %q, want %q", cfg.Model.APIKey, "secret123")
	}
	if cfg.Listen.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Listen.Port)
	}
	if cfg.Organizer.CurrentUser != "Sam" {
		t.Errorf("current_user = %q, want %q", cfg.Organizer.CurrentUser, "Sam")
	}
	loc, err := cfg.Organizer.Location()
	if err != nil || loc.String() != "Europe/Madrid" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
	if cfg.Reminders.Events.Preference().String() != "30 minutes" {
		t.Errorf("events preference = %v", cfg.Reminders.Events.Preference())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"gemini without key", func(c *Config) { c.Model.APIKey = "" }},
		{"vertex without project", func(c *Config) { c.Model.Backend = BackendVertex }},
		{"unknown backend", func(c *Config) { c.Model.Backend = "openai" }},
		{"zero tool calls", func(c *Config) { c.Model.MaxToolCalls = 0 }},
		{"bad port", func(c *Config) { c.Listen.Port = 70000 }},
		{"bad timezone", func(c *Config) { c.Organizer.Timezone = "Mars/Olympus" }},
		{"bad schedule", func(c *Config) { c.Reminders.Schedule = "whenever" }},
		{"minutes for deadlines", func(c *Config) { c.Reminders.Deadlines = PreferenceConfig{Amount: 10, Unit: "minutes"} }},
		{"negative event lead", func(c *Config) { c.Reminders.Events.Amount = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Model.APIKey = "key"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}

	cfg := Default()
	cfg.Model.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadDotEnv error: %v", err)
	}
}

func TestLoadDotEnv_SetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ORGANIZER_DOTENV_PROBE=hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ORGANIZER_DOTENV_PROBE", "")
	os.Unsetenv("ORGANIZER_DOTENV_PROBE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv error: %v", err)
	}
	if got := os.Getenv("ORGANIZER_DOTENV_PROBE"); got != "hello" {
		t.Errorf("ORGANIZER_DOTENV_PROBE = %q, want %q", got, "hello")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"TRACE":   observability.LevelTrace,
		"debug":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Error("ParseLogLevel(\"loud\") should error")
	}
}
