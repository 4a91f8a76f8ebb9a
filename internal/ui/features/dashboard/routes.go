package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the dashboard feature routes.
func SetupRoutes(router chi.Router, cfg Config) error {
	handlers := NewHandlers(cfg)

	router.Get("/", handlers.HomePage)
	router.Get("/download/{token}", handlers.Download)

	router.Route("/api", func(r chi.Router) {
		r.Post("/profile", handlers.ProfileSSE)
		r.Post("/profile/{id}/cancel", handlers.CancelProfile)
		r.Get("/tables", handlers.TablesSSE)
	})

	return nil
}
