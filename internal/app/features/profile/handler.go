// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	reviewstore "github.com/merrittsmen/clubhub/internal/app/store/reviews"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/authutil"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in member's own account page: account
// details, uploaded reviews, and a change-password form for password
// accounts.
type Handler struct {
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Users   *userstore.Store
	Reviews *reviewstore.Store
	Books   *bookstore.Store
}

func NewHandler(
	users *userstore.Store,
	reviews *reviewstore.Store,
	books *bookstore.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:     logger,
		ErrLog:  errLog,
		Users:   users,
		Reviews: reviews,
		Books:   books,
	}
}

// uploadVM is one of the member's own reviews with its book resolved.
type uploadVM struct {
	models.Review
	BookTitle string
}

type profileData struct {
	viewdata.BaseVM
	User          *models.User
	Uploads       []uploadVM
	CanSetPass    bool
	PasswordSaved bool
	PasswordError string
	PasswordRules string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	data.PasswordSaved = r.URL.Query().Get("saved") == "1"
	templates.Render(w, r, "profile", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile/password                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	data, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	if data.User.AuthMethod != models.AuthMethodPassword {
		h.ErrLog.LogForbidden(w, r, "password change on google account", "This account signs in with Google.", "/profile")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse password form failed", err, "Invalid form data.", "/profile")
		return
	}

	current := r.FormValue("current_password")
	newPass := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	reRender := func(msg string) {
		data.PasswordError = msg
		templates.Render(w, r, "profile", data)
	}

	if !authutil.CheckPassword(current, data.User.PasswordHash) {
		reRender("Your current password is incorrect.")
		return
	}
	if err := authutil.ValidatePassword(newPass); err != nil {
		reRender(err.Error())
		return
	}
	if newPass != confirm {
		reRender("The new passwords do not match.")
		return
	}

	hash, err := authutil.HashPassword(newPass)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "The password could not be changed.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, data.User.ID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "update password failed", faults.Mutation("password update", err), "The password could not be changed.", "/profile")
		return
	}

	h.Log.Info("password changed", zap.String("user_id", data.User.ID.Hex()))
	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

// loadProfile builds the page data every profile handler starts from.
// It renders the error page itself on failure.
func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (profileData, bool) {
	u, _ := auth.CurrentUser(r)
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad session user id", err, "Could not load your profile.", "/")
		return profileData{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile user failed", faults.Fetch("user", err), "Could not load your profile.", "/")
		return profileData{}, false
	}

	reviews, err := h.Reviews.ListByUser(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own reviews failed", faults.Fetch("reviews", err), "Could not load your profile.", "/")
		return profileData{}, false
	}

	books, err := h.Books.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list books failed", faults.Fetch("books", err), "Could not load your profile.", "/")
		return profileData{}, false
	}
	titleByID := make(map[string]string, len(books))
	for _, b := range books {
		titleByID[b.ID.Hex()] = b.Title
	}

	uploads := make([]uploadVM, 0, len(reviews))
	for _, rv := range reviews {
		title := titleByID[rv.BookID.Hex()]
		if title == "" {
			title = "Deleted book"
		}
		uploads = append(uploads, uploadVM{Review: rv, BookTitle: title})
	}

	return profileData{
		BaseVM:        viewdata.NewBaseVM(r, "Your Profile", "/"),
		User:          user,
		Uploads:       uploads,
		CanSetPass:    user.AuthMethod == models.AuthMethodPassword,
		PasswordRules: authutil.PasswordRules(),
	}, true
}
