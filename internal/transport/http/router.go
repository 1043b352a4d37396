// Package httptransport assembles the root HTTP router: shared middleware,
// health, metrics and static uploads, with domain handlers mounted on top.
package httptransport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spot/internal/platform/metrics"
	"spot/internal/platform/middleware"
	"spot/internal/spot/models"
	"spot/internal/upload"
	"spot/pkg/platform/httputil"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig carries everything the root router needs.
type RouterConfig struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	CORSOrigin string
	UploadDir  string
	Handlers   []Registrar
}

// NewRouter wires the middleware chain and all routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigin)))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))

	r.Get("/health", handleHealth)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	if cfg.UploadDir != "" {
		r.Get(upload.PublicPrefix+"/*", uploadsHandler(cfg.UploadDir))
	}

	for _, h := range cfg.Handlers {
		h.Register(r)
	}

	r.NotFound(writeNotFound)
	return r
}

func writeNotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "not found"})
}

func corsOptions(origin string) cors.Options {
	origins := []string{"*"}
	if origin = strings.TrimSpace(origin); origin != "" && origin != "*" {
		origins = strings.Split(origin, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
