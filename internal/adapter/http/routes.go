package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Messages
		r.Post("/message", h.ProcessMessage)

		// Pending items
		r.Get("/pending", h.ListPending)
		r.Get("/pending/{id}", h.GetPending)
		r.Post("/pending/{id}/respond", h.RespondPending)

		// Audit log
		r.Get("/logs", h.ListLogs)

		// Canned scenario runner
		r.Post("/test", h.RunScenario)
	})
}
