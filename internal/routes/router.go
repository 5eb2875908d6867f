package routes

import (
	"net/http"
	"time"

	"civic-commons/townhall/internal/api"
	"civic-commons/townhall/internal/logging"
	"civic-commons/townhall/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(deps *api.Dependencies, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	if deps.Config.AppEnv != "production" {
		r.Use(middleware.Logging)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	r.Get("/healthCheck", handlers.HealthCheckHandler(upSince))
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/internal/cron", func(cron chi.Router) {
		cron.Use(middleware.CronSecretMiddleware(deps.Config.CronSecret))
		cron.Post("/weekly-reset", handlers.CronWeeklyReset())
	})

	RegisterAPIRoutes(r, handlers, deps)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
