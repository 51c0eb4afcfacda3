// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	loginstore "github.com/merrittsmen/clubhub/internal/app/store/logins"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/authutil"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the email/password sign-in form.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Users      *userstore.Store
	Logins     *loginstore.Store

	// GoogleEnabled shows the "sign in with Google" option.
	GoogleEnabled bool
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	users *userstore.Store,
	logins *loginstore.Store,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		Users:         users,
		Logins:        logins,
		GoogleEnabled: googleEnabled,
	}
}

// loginFormData feeds the sign-in form template.
type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// errorMessages maps ?error= codes set by the OAuth flow to the text
// shown above the form.
var errorMessages = map[string]string{
	"google_denied":         "Google sign-in was cancelled.",
	"google_not_configured": "Google sign-in is not available right now.",
	"invalid_state":         "Sign-in session expired. Please try again.",
	"invalid_code":          "Sign-in failed. Please try again.",
	"token_exchange":        "Sign-in failed. Please try again.",
	"user_info":             "Could not read your Google account. Please try again.",
	"session":               "Could not start your session. Please try again.",
	"internal":              "Something went wrong. Please try again.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, loginFormData{
		Error:     errorMessages[query.Get(r, "error")],
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	reRender := func(msg string) {
		h.renderForm(w, r, loginFormData{
			Error:     msg,
			Email:     email,
			ReturnURL: returnURL,
		})
	}

	if email == "" || password == "" {
		reRender("Please enter your email and password.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
			// Same message as a wrong password so the form does not
			// reveal which emails have accounts.
			reRender("Invalid email or password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "user lookup failed", err, "Something went wrong. Please try again.", "/login")
		return
	}

	if u.AuthMethod != models.AuthMethodPassword {
		h.AuditLog.LoginFailedWrongMethod(ctx, r, u.ID, u.Email, u.AuthMethod)
		reRender("This account signs in with Google. Use the Google button below.")
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		reRender("Invalid email or password.")
		return
	}

	h.signInAndRedirect(w, r, u, returnURL)
}

// signInAndRedirect completes a successful authentication: session
// cookie, login record, audit entry, then redirect. Approved members
// land on the member pages, everyone else on the pending page.
func (h *Handler) signInAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", u.Email))
		h.renderForm(w, r, loginFormData{
			Error: errorMessages["session"],
			Email: u.Email,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Logins.CreateFrom(ctx, r, u.ID, u.Email, u.AuthMethod); err != nil {
		h.Log.Warn("record login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.AuthMethod, u.Email)

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	if !u.Approved {
		http.Redirect(w, r, auth.PendingURL, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", auth.MemberURL), http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data loginFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Sign In", "/")
	data.GoogleEnabled = h.GoogleEnabled
	templates.Render(w, r, "login", data)
}
