package runs

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapprofile/internal/ui/notifier"
)

// SetupRoutes registers the runs history feature routes.
func SetupRoutes(router chi.Router, store Lister, notify *notifier.Notifier, isDev bool) error {
	handlers := NewHandlers(store, notify, isDev)

	router.Get("/runs", handlers.RunsPage)

	router.Route("/api/runs", func(r chi.Router) {
		r.Get("/", handlers.RunsListSSE)
		r.Get("/updates", handlers.RunsUpdatesSSE)
	})

	return nil
}
