// internal/app/features/books/routes.go
package books

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted at /books. Approval gating is
// applied by the caller at mount time.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/{bookID}/reviews", h.HandleUploadReview)
	return r
}

// ReviewRoutes returns the subrouter mounted at /reviews.
func ReviewRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{reviewID}/download", h.HandleDownloadReview)
	r.Post("/{reviewID}/delete", h.HandleDeleteReview)
	return r
}
