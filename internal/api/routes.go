package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/tibcal-api/internal/config"
	"github.com/zapponejosh/tibcal-api/internal/metrics"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health
//	GET  /metrics
//	GET  /api/v1/tibetan/today
//	GET  /api/v1/tibetan/range?start=&end=
//	GET  /api/v1/tibetan/{date}
//	GET  /api/v1/gregorian?rabjung=&year=&month=&day=
//	GET  /api/v1/months/{rabjung}/{year}/{month}
//	GET  /api/v1/months/{rabjung}/{year}/{month}/{flag}
//	GET  /api/v1/checks
//	POST /api/v1/admin/exports   (admin key)
//	GET  /api/v1/admin/exports   (admin key)
//	GET  /api/v1/admin/exports/{id}   (admin key)
//	GET  /api/v1/admin/exports/{id}/months/{rabjung}/{year}/{month}/{flag}   (admin key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(baseMiddleware(m, logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tibetan/today", handlers.GetTodayTibetan)
		r.Get("/tibetan/range", handlers.GetTibetanRange)
		r.Get("/tibetan/{date}", handlers.GetTibetanDate)

		r.Get("/gregorian", handlers.GetGregorian)

		r.Get("/months/{rabjung}/{year}/{month}", handlers.GetMonth)
		r.Get("/months/{rabjung}/{year}/{month}/{flag}", handlers.GetMonthWithFlag)

		r.Get("/checks", handlers.GetChecks)

		// ======================================================================
		// Admin routes (admin key only)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AdminOnlyMiddleware(cfg, logger))
			r.Post("/admin/exports", handlers.CreateExport)
			r.Get("/admin/exports", handlers.ListExports)
			r.Get("/admin/exports/{id}", handlers.GetExport)
			r.Get("/admin/exports/{id}/months/{rabjung}/{year}/{month}/{flag}", handlers.GetExportedMonth)
		})
	})

	return r
}

// baseMiddleware is the stack every request passes through. The request id
// is assigned first so that recovery and access logs carry it.
func baseMiddleware(m *metrics.Metrics, logger *slog.Logger) Middleware {
	return ChainMiddleware(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		MetricsMiddleware(m),
		CORSMiddleware(),
	)
}
