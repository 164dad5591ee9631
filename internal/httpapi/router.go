package httpapi

import (
	"net/http"

	"github.com/JaimeDevz/weather-app/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type RouterOptions struct {
	ServiceName    string
	AllowedOrigins []string
	Tracer         oteltrace.Tracer
	Metrics        http.Handler
}

// Handler mounts the gateway API under /api behind the standard middleware stack.
func (s *Server) Handler(opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "traceparent"},
		ExposedHeaders: []string{"X-Request-ID", "Trace-ID"},
		MaxAge:         300,
	}))
	if opts.Tracer != nil {
		r.Use(observability.MetricsAndTracingMiddleware(opts.Tracer, opts.ServiceName))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		s.RegisterRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}
