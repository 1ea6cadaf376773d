package periods

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/{id}/close", h.Close)
	r.Post("/{id}/open", h.Open)
}
