package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("WEATHER_GATEWAY_PORT", "")
	t.Setenv("WEATHER_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.UpstreamTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if !errors.Is(cfg.Validate(), ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", cfg.Validate())
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("WEATHER_GATEWAY_PORT", "9000")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEATHER_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.UpstreamTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadDotEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("WEATHER_GATEWAY_PORT", "")
	// godotenv never overrides variables that are already set, even when empty.
	os.Unsetenv("OPENWEATHER_API_KEY")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENWEATHER_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dir, "weather.yaml")
	if err := os.WriteFile(cfgFile, []byte("port: \"8181\"\nlog_format: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WEATHER_CONFIG", cfgFile)
	t.Cleanup(func() { os.Unsetenv("OPENWEATHER_API_KEY") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "from-dotenv" {
		t.Fatalf("expected key from .env, got %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.Port != "8181" || cfg.LogFormat != "json" {
		t.Fatalf("expected file values, got port=%q format=%q", cfg.Port, cfg.LogFormat)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
