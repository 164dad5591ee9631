package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY is not set")

type Config struct {
	Port               string        `mapstructure:"port"`
	OpenWeatherAPIKey  string        `mapstructure:"openweather_api_key"`
	OpenWeatherBaseURL string        `mapstructure:"openweather_base_url"`
	UpstreamTimeout    time.Duration `mapstructure:"upstream_timeout"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	GatewayURL         string        `mapstructure:"gateway_url"`
	LogFormat          string        `mapstructure:"log_format"`
	LogLevel           string        `mapstructure:"log_level"`
	OTLPEndpoint       string        `mapstructure:"otlp_endpoint"`
}

// Load reads configuration from the environment, an optional .env file in the
// working directory and an optional YAML file named by WEATHER_CONFIG.
// Environment values win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("port", "3000")
	v.SetDefault("openweather_base_url", "https://api.openweathermap.org")
	v.SetDefault("upstream_timeout", 10*time.Second)
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("gateway_url", "http://localhost:3000")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")

	_ = v.BindEnv("port", "PORT", "WEATHER_GATEWAY_PORT")
	_ = v.BindEnv("openweather_api_key", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("openweather_base_url", "OPENWEATHER_BASE_URL")
	_ = v.BindEnv("upstream_timeout", "UPSTREAM_TIMEOUT")
	_ = v.BindEnv("cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("gateway_url", "WEATHER_GATEWAY_URL")
	_ = v.BindEnv("log_format", "LOG_FORMAT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	if path := os.Getenv("WEATHER_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CORSAllowedOrigins = splitList(strings.Join(cfg.CORSAllowedOrigins, ","))
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 10 * time.Second
	}
	return cfg, nil
}

// Validate checks the settings the gateway cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OpenWeatherAPIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
