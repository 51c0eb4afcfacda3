// internal/app/features/pending/routes.go
package pending

import (
	"github.com/go-chi/chi/v5"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServePending)
	})

	return r
}
