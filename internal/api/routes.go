package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/patro-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health
//	GET /metrics
//	GET /api/v1/today?tz=
//	GET /api/v1/convert/ad-to-bs/{date}
//	GET /api/v1/convert/bs-to-ad/{date}
//	GET /api/v1/format?date=&layout=&style=
//	GET /api/v1/parse?text=&layout=
//	GET /api/v1/calendar/{year}
//	GET /api/v1/calendar/{year}/{month}?nepali=&first=
//	GET /api/v1/admin/almanac            (API key)
//	PUT /api/v1/admin/almanac/{year}     (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	baseMiddleware := ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		handlers.metrics.Middleware(),
		CORSMiddleware(),
	)
	r.Use(baseMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed)
	})

	// ==========================================================================
	// Operational routes (not rate limited)
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		// ======================================================================
		// Public routes
		// ======================================================================
		r.Get("/today", handlers.Today)
		r.Get("/convert/ad-to-bs/{date}", handlers.ConvertADToBS)
		r.Get("/convert/bs-to-ad/{date}", handlers.ConvertBSToAD)
		r.Get("/format", handlers.Format)
		r.Get("/parse", handlers.Parse)
		r.Get("/calendar/{year}", handlers.YearCalendar)
		r.Get("/calendar/{year}/{month}", handlers.MonthCalendar)
		r.Get("/numbers/format", handlers.FormatNumber)
		r.Get("/numbers/words/{n}", handlers.NumberWords)
		r.Get("/numbers/ordinal/{value}", handlers.Ordinal)

		// ======================================================================
		// Admin routes (API key)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Get("/admin/almanac", handlers.GetAlmanac)
			r.Put("/admin/almanac/{year}", handlers.PutAlmanacYear)
		})
	})

	return r
}
