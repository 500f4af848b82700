package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/prospectlab/prospect/internal/handlers"
	"github.com/prospectlab/prospect/internal/middleware"
)

// RegisterRoutes registers all application routes under /api. Everything is
// behind the session-token middleware except the source catalog.
func RegisterRoutes(
	router chi.Router,
	searchHandler *handlers.SearchHandler,
	unlockHandler *handlers.UnlockHandler,
	historyHandler *handlers.HistoryHandler,
	userHandler *handlers.UserHandler,
	mailHandler *handlers.MailHandler,
	suggestHandler *handlers.SuggestHandler,
	sessionSecret string,
	logger *slog.Logger,
) {
	unlockLimit := middleware.DefaultUnlockRateLimit()
	extractionLimit := middleware.DefaultExtractionRateLimit()

	router.Route("/api", func(api chi.Router) {
		// The source catalog is static and safe to expose unauthenticated.
		api.Get("/sources", searchHandler.ListSources)

		api.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(sessionSecret, logger))

			searchHandler.RegisterRoutes(r)
			historyHandler.RegisterRoutes(r)
			userHandler.RegisterRoutes(r)

			// Paid and AI-backed endpoints get tighter limits.
			r.Group(func(paid chi.Router) {
				paid.Use(middleware.RateLimitByIP(unlockLimit))
				unlockHandler.RegisterRoutes(paid)
			})
			r.Group(func(ai chi.Router) {
				ai.Use(middleware.RateLimitByIP(extractionLimit))
				mailHandler.RegisterRoutes(ai)
				suggestHandler.RegisterRoutes(ai)
			})
		})
	})
}
