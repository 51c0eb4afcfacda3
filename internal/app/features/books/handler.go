// internal/app/features/books/handler.go
package books

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	"github.com/merrittsmen/clubhub/internal/app/policy/reviewpolicy"
	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	reviewstore "github.com/merrittsmen/clubhub/internal/app/store/reviews"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the member-facing book shelf: books grouped by reading
// group, each with its uploaded reviews.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Books    *bookstore.Store
	Reviews  *reviewstore.Store
	Users    *userstore.Store
	Groups   *groupstore.Store
	Storage  storage.Store
}

func NewHandler(
	books *bookstore.Store,
	reviews *reviewstore.Store,
	users *userstore.Store,
	groups *groupstore.Store,
	store storage.Store,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Books:    books,
		Reviews:  reviews,
		Users:    users,
		Groups:   groups,
		Storage:  store,
	}
}

// reviewVM is one review row under a book.
type reviewVM struct {
	models.Review
	UploaderName string
	CanDelete    bool
}

// bookVM is one book with its reviews.
type bookVM struct {
	models.Book
	Reviews []reviewVM
}

// shelfVM is one group section on the shelf. A nil group renders as
// "Unassigned" after the group sections.
type shelfVM struct {
	GroupName string
	Books     []bookVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /books – the shelf                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)

	shelf, err := h.loadShelf(ctx, u)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load shelf failed", err, "Could not load the books.", "/")
		return
	}

	data := struct {
		viewdata.BaseVM
		Sections []shelfVM
	}{
		BaseVM:   viewdata.NewBaseVM(r, "Books", "/"),
		Sections: shelf,
	}
	templates.Render(w, r, "books_list", data)
}

// loadShelf performs the four reads and joins them in memory: reviews
// under books (with uploader names), books under groups, unassigned
// books last. Any read failing abandons the whole fetch.
func (h *Handler) loadShelf(ctx context.Context, u *auth.SessionUser) ([]shelfVM, error) {
	books, err := h.Books.List(ctx)
	if err != nil {
		return nil, faults.Fetch("books", err)
	}
	reviews, err := h.Reviews.List(ctx)
	if err != nil {
		return nil, faults.Fetch("reviews", err)
	}
	users, err := h.Users.List(ctx)
	if err != nil {
		return nil, faults.Fetch("users", err)
	}
	groups, err := h.Groups.List(ctx)
	if err != nil {
		return nil, faults.Fetch("groups", err)
	}

	nameByID := make(map[string]string, len(users))
	for _, usr := range users {
		nameByID[usr.ID.Hex()] = usr.FullName
	}

	reviewsByBook := make(map[string][]reviewVM, len(books))
	for _, rv := range reviews {
		vm := reviewVM{
			Review:       rv,
			UploaderName: nameByID[rv.UserID.Hex()],
			CanDelete:    reviewpolicy.CanDelete(u, rv.UserID),
		}
		if vm.UploaderName == "" {
			vm.UploaderName = "Former member"
		}
		key := rv.BookID.Hex()
		reviewsByBook[key] = append(reviewsByBook[key], vm)
	}

	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID.Hex()] = true
	}

	booksByGroup := make(map[string][]bookVM, len(groups))
	var unassigned []bookVM
	for _, b := range books {
		vm := bookVM{Book: b, Reviews: reviewsByBook[b.ID.Hex()]}
		// Books whose group was deleted land under Unassigned too.
		if b.GroupID == nil || !known[b.GroupID.Hex()] {
			unassigned = append(unassigned, vm)
			continue
		}
		key := b.GroupID.Hex()
		booksByGroup[key] = append(booksByGroup[key], vm)
	}

	var sections []shelfVM
	for _, g := range groups {
		bs := booksByGroup[g.ID.Hex()]
		if len(bs) == 0 {
			continue
		}
		sections = append(sections, shelfVM{GroupName: g.Name, Books: bs})
	}
	if len(unassigned) > 0 {
		sections = append(sections, shelfVM{GroupName: "Unassigned", Books: unassigned})
	}
	return sections, nil
}
