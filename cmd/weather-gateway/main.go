package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaimeDevz/weather-app/internal/config"
	"github.com/JaimeDevz/weather-app/internal/httpapi"
	"github.com/JaimeDevz/weather-app/internal/observability"
	"github.com/JaimeDevz/weather-app/internal/owm"
)

const serviceName = "weather-gateway"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogFormat, cfg.SlogLevel())
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	shutdownObs, promHandler, tracer, err := observability.Setup(context.Background(), serviceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up observability", "error", err)
		os.Exit(1)
	}

	owmClient := owm.New(cfg.OpenWeatherAPIKey,
		owm.WithBaseURL(cfg.OpenWeatherBaseURL),
		owm.WithTimeout(cfg.UpstreamTimeout),
	)
	srv := httpapi.NewServer(owmClient)

	httpSrv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: srv.Handler(httpapi.RouterOptions{
			ServiceName:    serviceName,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Tracer:         tracer,
			Metrics:        promHandler,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("weather-gateway started", "port", cfg.Port, "upstream", cfg.OpenWeatherBaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down")
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := shutdownObs(ctx); err != nil {
		slog.Error("observability shutdown error", "error", err)
	}
}
