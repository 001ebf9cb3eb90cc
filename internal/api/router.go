package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AccessToken        string
	RateLimitPerMinute int
}

func NewRouter(rep Reporter, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))
	r.Use(AccessTokenMiddleware(cfg.AccessToken))

	h := NewReportHandler(rep, logger)

	r.Get("/", h.Dashboard)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", h.Report)
		r.Get("/options", h.Options)
		r.Get("/weights", h.Weights)
		r.Get("/export.csv", h.Export)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/radar.svg", h.RadarChart)
			r.Get("/bar.svg", h.BarChart)
			r.Get("/respondents.svg", h.RespondentChart)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
