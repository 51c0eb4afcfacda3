// internal/app/features/admin/books.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// adminBookVM is one catalog row with its group name resolved.
type adminBookVM struct {
	models.Book
	GroupName string
}

// bookFormData feeds the new/edit book form.
type bookFormData struct {
	viewdata.BaseVM
	Error   string
	Editing bool
	EditID  string
	BkTitle string
	Author  string
	Year    string
	GroupID string
	Groups  []models.Group
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/books                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	books, err := h.Books.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list books failed", faults.Fetch("books", err), "Could not load the catalog.", "/admin")
		return
	}
	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", faults.Fetch("groups", err), "Could not load the groups.", "/admin")
		return
	}

	nameByID := make(map[string]string, len(groups))
	for _, g := range groups {
		nameByID[g.ID.Hex()] = g.Name
	}

	vms := make([]adminBookVM, 0, len(books))
	for _, b := range books {
		vm := adminBookVM{Book: b}
		if b.GroupID != nil {
			vm.GroupName = nameByID[b.GroupID.Hex()]
		}
		vms = append(vms, vm)
	}

	data := struct {
		viewdata.BaseVM
		Books []adminBookVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Manage Books", "/admin"),
		Books:  vms,
	}
	templates.Render(w, r, "admin_books", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/books/new, POST /admin/books                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewBook(w http.ResponseWriter, r *http.Request) {
	h.renderBookForm(w, r, bookFormData{})
}

func (h *Handler) HandleCreateBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse book form failed", err, "Invalid form data.", "/admin/books")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	author := strings.TrimSpace(r.FormValue("author"))
	yearStr := strings.TrimSpace(r.FormValue("year"))
	groupStr := strings.TrimSpace(r.FormValue("group_id"))

	reRender := func(msg string) {
		h.renderBookForm(w, r, bookFormData{
			Error: msg, BkTitle: title, Author: author,
			Year: yearStr, GroupID: groupStr,
		})
	}

	year, groupID, msg := parseBookFields(title, yearStr, groupStr)
	if msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.Books.Create(ctx, models.Book{
		Title:   title,
		Author:  author,
		Year:    year,
		GroupID: groupID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create book failed", faults.Mutation("book insert", err), "The book could not be added.", "/admin/books")
		return
	}

	h.AuditLog.BookCreated(ctx, r, actorObjectID(r), b.ID, b.Title)
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/books/{bookID}/edit, POST .../edit                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEditBook(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBook(w, r)
	if !ok {
		return
	}
	data := bookFormData{
		Editing: true,
		EditID:  b.ID.Hex(),
		BkTitle: b.Title,
		Author:  b.Author,
		Year:    strconv.Itoa(b.Year),
	}
	if b.GroupID != nil {
		data.GroupID = b.GroupID.Hex()
	}
	h.renderBookForm(w, r, data)
}

func (h *Handler) HandleEditBook(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse book form failed", err, "Invalid form data.", "/admin/books")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	author := strings.TrimSpace(r.FormValue("author"))
	yearStr := strings.TrimSpace(r.FormValue("year"))
	groupStr := strings.TrimSpace(r.FormValue("group_id"))

	reRender := func(msg string) {
		h.renderBookForm(w, r, bookFormData{
			Error: msg, Editing: true, EditID: b.ID.Hex(),
			BkTitle: title, Author: author, Year: yearStr, GroupID: groupStr,
		})
	}

	year, groupID, msg := parseBookFields(title, yearStr, groupStr)
	if msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Books.Update(ctx, b.ID, title, author, year, groupID); err != nil {
		if errors.Is(err, bookstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "edit of unknown book", "Book not found.", "/admin/books")
			return
		}
		h.ErrLog.LogServerError(w, r, "update book failed", faults.Mutation("book update", err), "The book could not be saved.", "/admin/books")
		return
	}

	h.AuditLog.BookUpdated(ctx, r, actorObjectID(r), b.ID, title)
	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/books/{bookID}/delete – cascades to reviews and their blobs     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteBook(w http.ResponseWriter, r *http.Request) {
	b, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	paths, err := h.Books.Delete(ctx, b.ID)
	if err != nil {
		if errors.Is(err, bookstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "delete of unknown book", "Book not found.", "/admin/books")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete book failed", faults.Mutation("book delete", err), "The book could not be deleted.", "/admin/books")
		return
	}

	// The rows are gone; blob cleanup is best effort. An orphaned file
	// wastes space but is unreachable through the app.
	for _, p := range paths {
		if derr := h.Storage.Delete(ctx, p); derr != nil {
			h.Log.Warn("review blob delete failed; file orphaned",
				zap.String("path", p), zap.Error(derr))
		}
	}

	h.AuditLog.BookDeleted(ctx, r, actorObjectID(r), b.ID, b.Title)
	h.Log.Info("book deleted",
		zap.String("book_id", b.ID.Hex()),
		zap.Int("reviews_removed", len(paths)))

	http.Redirect(w, r, "/admin/books", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// parseBookFields validates the catalog form. An empty group selects
// "Unassigned" and comes back as a nil id.
func parseBookFields(title, yearStr, groupStr string) (int, *primitive.ObjectID, string) {
	if title == "" {
		return 0, nil, "Please enter the book's title."
	}
	year := 0
	if yearStr != "" {
		n, err := strconv.Atoi(yearStr)
		if err != nil || n < 0 {
			return 0, nil, "Year must be a number."
		}
		year = n
	}
	if groupStr == "" {
		return year, nil, ""
	}
	id, err := primitive.ObjectIDFromHex(groupStr)
	if err != nil {
		return 0, nil, "Please pick a group from the list."
	}
	return year, &id, ""
}

func (h *Handler) loadBook(w http.ResponseWriter, r *http.Request) (models.Book, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "bookID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad book id", "Book not found.", "/admin/books")
		return models.Book{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "unknown book", "Book not found.", "/admin/books")
			return models.Book{}, false
		}
		h.ErrLog.LogServerError(w, r, "load book failed", err, "Could not load the book.", "/admin/books")
		return models.Book{}, false
	}
	return b, true
}

func (h *Handler) renderBookForm(w http.ResponseWriter, r *http.Request, data bookFormData) {
	title := "New Book"
	if data.Editing {
		title = "Edit Book"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.Log.Warn("group list for book form failed", zap.Error(err))
	}

	data.BaseVM = viewdata.NewBaseVM(r, title, "/admin/books")
	data.Groups = groups
	templates.Render(w, r, "admin_book_form", data)
}
