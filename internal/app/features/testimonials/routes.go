// internal/app/features/testimonials/routes.go
package testimonials

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted at /testimonials. Approval
// gating is applied by the caller at mount time.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{testimonialID}/edit", h.ServeEdit)
	r.Post("/{testimonialID}/edit", h.HandleEdit)
	r.Post("/{testimonialID}/delete", h.HandleDelete)
	return r
}
