package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hvacops/analytics-api/internal/config"
	"github.com/hvacops/analytics-api/internal/metrics"
	"github.com/hvacops/analytics-api/internal/pipeline"
	"github.com/hvacops/analytics-api/internal/store"
	"github.com/hvacops/analytics-api/internal/utils"
)

func NewRouter(log *slog.Logger, cfg config.Config, st store.Store, mSvc *metrics.Service, pSvc *pipeline.Service) http.Handler {
	h := &handlers{log: log, cfg: cfg, st: st, metrics: mSvc, pipeline: pSvc}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	mux.Get("/", h.root)
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/test", h.diagnostics)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Get("/metrics/summary", h.summary)
		r.Get("/metrics/timeseries", h.timeseries)
		r.Post("/metrics", h.createMetric)
		r.Get("/contacts", h.listContacts)
		r.Post("/contacts", h.createContact)
		r.Patch("/contacts/{id}/stage", h.updateStage)
		r.Get("/contacts/{id}/conversation", h.conversation)
	})

	return mux
}
