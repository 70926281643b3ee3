package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the minutes API under /api plus an unauthenticated
// health endpoint.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/minutes/generate", h.Generate)
		r.Get("/minutes/export/csv", h.ExportCSV)
		r.Post("/minutes", h.Create)
		r.Get("/minutes", h.List)
		r.Get("/minutes/{id}", h.Detail)
		r.Put("/minutes/{id}", h.Update)
		r.Get("/minutes/{id}/history", h.History)
		r.Post("/minutes/{id}/reminders", h.CreateReminder)
		r.Post("/minutes/{id}/notifications", h.SendNotification)
		r.Get("/minutes/{id}/export/pdf", h.ExportPDF)
	})

	return r
}
