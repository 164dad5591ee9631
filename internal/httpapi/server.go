package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/JaimeDevz/weather-app/internal/models"
	"github.com/JaimeDevz/weather-app/internal/owm"

	"github.com/go-chi/chi/v5"
)

// ForecastSource is the upstream the gateway proxies to.
type ForecastSource interface {
	Forecast(ctx context.Context, city string) ([]byte, error)
}

type Server struct {
	upstream ForecastSource
}

func NewServer(upstream ForecastSource) *Server {
	return &Server{upstream: upstream}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/weather/{city}", s.handleForecast)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorBody{Message: msg})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	// chi routes on RawPath when the request carried escapes Path cannot represent.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(city)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid city")
			return
		}
		city = unescaped
	}

	body, err := s.upstream.Forecast(r.Context(), city)
	if err != nil {
		var ue *owm.UpstreamError
		if errors.As(err, &ue) {
			slog.Warn("forecast lookup failed", "city", city, "status", ue.Status, "kind", ue.Kind.String(), "error", err)
			writeError(w, ue.Status, ue.Message)
			return
		}
		slog.Error("forecast lookup failed", "city", city, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
