package main

import (
	"log/slog"
	"net/http"

	"github.com/chris/golf-league-ledger/pkg/api"
	"github.com/chris/golf-league-ledger/pkg/handlers/render"
	mw "github.com/chris/golf-league-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	API            api.ServerInterface
	Auth           *mw.JWTAuth
	HTTPMetrics    *mw.HTTPMetrics
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
	AllowedOrigins []string
}

// newRouter mounts the ledger API behind JWT auth. Health and metrics stay public.
func newRouter(deps routerDeps) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.NewStructuredLogger(deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(deps.HTTPMetrics.Instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	router.Group(func(r chi.Router) {
		r.Use(deps.Auth.Middleware)
		api.HandlerWithOptions(deps.API, api.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: render.ParamError,
		})
	})

	return router
}
