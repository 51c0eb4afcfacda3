// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted at /admin. The admin gate is
// applied by the caller at mount time.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeRoot)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ServeUsers)
		r.Post("/{userID}/approve", h.HandleApproveUser)
		r.Post("/{userID}/revoke", h.HandleRevokeUser)
		r.Post("/{userID}/promote", h.HandlePromoteUser)
		r.Post("/{userID}/delete", h.HandleDeleteUser)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ServeGroups)
		r.Get("/new", h.ServeNewGroup)
		r.Post("/", h.HandleCreateGroup)
		r.Get("/{groupID}/edit", h.ServeEditGroup)
		r.Post("/{groupID}/edit", h.HandleEditGroup)
		r.Post("/{groupID}/delete", h.HandleDeleteGroup)
		r.Get("/{groupID}/members/new", h.ServeNewMember)
		r.Post("/{groupID}/members", h.HandleAddMember)
	})

	r.Route("/members", func(r chi.Router) {
		r.Get("/{memberID}/edit", h.ServeEditMember)
		r.Post("/{memberID}/edit", h.HandleEditMember)
		r.Post("/{memberID}/delete", h.HandleDeleteMember)
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.ServeBooks)
		r.Get("/new", h.ServeNewBook)
		r.Post("/", h.HandleCreateBook)
		r.Get("/{bookID}/edit", h.ServeEditBook)
		r.Post("/{bookID}/edit", h.HandleEditBook)
		r.Post("/{bookID}/delete", h.HandleDeleteBook)
	})

	r.Get("/activity", h.ServeActivity)

	return r
}
