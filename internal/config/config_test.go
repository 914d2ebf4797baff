package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func lookupMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil, lookupMap(nil), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("expected db %s, got %s", DefaultDBPath, cfg.DBPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected logging defaults: %s %s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.RedisURL != "" || cfg.SessionSecret != "" || cfg.BaseURL != "" {
		t.Errorf("expected empty optional settings, got %+v", cfg)
	}
	if cfg.Timezone != "UTC" || cfg.Location().String() != "UTC" {
		t.Errorf("expected UTC, got %s", cfg.Timezone)
	}
	if cfg.Addr() != ":8081" {
		t.Errorf("expected :8081, got %s", cfg.Addr())
	}
}

func TestParse_Environment(t *testing.T) {
	env := map[string]string{
		"PORT":           "9000",
		"POLLBOX_DB":     "/tmp/polls.db",
		"LOG_LEVEL":      "debug",
		"LOG_FORMAT":     "json",
		"REDIS_URL":      "redis://cache:6379/0",
		"SESSION_SECRET": "shh",
		"BASE_URL":       "https://polls.example.com/",
		"APP_TIMEZONE":   "Europe/Berlin",
	}

	cfg, err := Parse(nil, lookupMap(env), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9000 || cfg.DBPath != "/tmp/polls.db" {
		t.Errorf("unexpected port/db: %d %s", cfg.Port, cfg.DBPath)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("unexpected logging: %s %s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.RedisURL != "redis://cache:6379/0" || cfg.SessionSecret != "shh" {
		t.Errorf("unexpected redis/secret: %s %s", cfg.RedisURL, cfg.SessionSecret)
	}
	if cfg.BaseURL != "https://polls.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.BaseURL)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Errorf("expected Europe/Berlin, got %s", cfg.Location())
	}
}

func TestParse_FlagsOverrideEnvironment(t *testing.T) {
	env := map[string]string{"PORT": "9000", "LOG_LEVEL": "debug"}
	args := []string{"-port", "7000", "-loglevel", "warn", "-nokeyboard", "-base-url", "http://lan:7000"}

	cfg, err := Parse(args, lookupMap(env), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 7000 || cfg.LogLevel != "warn" {
		t.Errorf("expected flags to win, got %d %s", cfg.Port, cfg.LogLevel)
	}
	if !cfg.NoKeyboard {
		t.Error("expected nokeyboard to be set")
	}
	if cfg.BaseURL != "http://lan:7000" {
		t.Errorf("unexpected base url %s", cfg.BaseURL)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad env port", nil, map[string]string{"PORT": "eighty"}},
		{"port out of range", []string{"-port", "70000"}, nil},
		{"unknown flag", []string{"-frobnicate"}, nil},
		{"bad log format", []string{"-logformat", "xml"}, nil},
		{"bad timezone", []string{"-timezone", "Mars/Olympus_Mons"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.args, lookupMap(tt.env), io.Discard); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("POLLBOX_TEST_DOTENV_DB=from-dotenv.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("POLLBOX_TEST_DOTENV_DB") })

	if _, err := Load(nil, file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("POLLBOX_TEST_DOTENV_DB"); got != "from-dotenv.db" {
		t.Errorf("expected .env value to be loaded, got %q", got)
	}
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	if _, err := Load(nil, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}
