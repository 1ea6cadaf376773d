package journals

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/post", h.Post)
	r.Post("/{id}/void-request", h.RequestVoid)
	r.Post("/{id}/void-authorize", h.AuthorizeVoid)
}
