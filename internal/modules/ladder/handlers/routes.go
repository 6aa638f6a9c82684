package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ladder routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ladder", func(r chi.Router) {
		r.Get("/best", h.HandleGetBest)
		r.Get("/highlights", h.HandleGetHighlights)
		r.Get("/history", h.HandleGetHistory)
		r.Post("/optimize", h.HandleOptimize)
	})
}
