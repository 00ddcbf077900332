package quotations

import (
	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/quotedesk/internal/shared"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAuthenticated())
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Replace)
		r.Get("/{id}/pdf", h.PDF)
		r.Get("/{id}/print", h.Print)
		r.Post("/{id}/email", h.Email)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRole(shared.RoleAdmin))
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
		r.Delete("/{id}", h.Delete)
	})
}

// MountPricingRoutes exposes draft pricing under /pricing.
func (h *Handler) MountPricingRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAuthenticated())
		r.Post("/preview", h.Preview)
	})
}
