// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/authutil"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the membership application form.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Users      *userstore.Store

	// GoogleEnabled shows the "register with Google" option.
	GoogleEnabled bool
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	users *userstore.Store,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		Users:         users,
		GoogleEnabled: googleEnabled,
	}
}

// registerFormData feeds the registration form template.
type registerFormData struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	PasswordRules string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, registerFormData{})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
| Creates an unapproved account and signs the applicant in so they land on    |
| the pending page.                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form data.", "/register")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	reRender := func(msg string) {
		h.renderForm(w, r, registerFormData{
			Error:    msg,
			FullName: fullName,
			Email:    email,
		})
	}

	if fullName == "" {
		reRender("Please enter your name.")
		return
	}
	if !authutil.IsValidEmail(email) {
		reRender("Please enter a valid email address.")
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		reRender(err.Error())
		return
	}
	if password != confirm {
		reRender("Passwords do not match.")
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Something went wrong. Please try again.", "/register")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		AuthMethod:   models.AuthMethodPassword,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			reRender("An account with that email already exists. Try signing in instead.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Something went wrong. Please try again.", "/register")
		return
	}

	h.AuditLog.Registered(ctx, r, u.ID, u.Email, u.AuthMethod)
	h.Log.Info("new member registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	// Sign the applicant in so the pending page can greet them by name.
	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("sign-in after registration failed", zap.Error(err),
			zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, auth.LoginURL, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, auth.PendingURL, http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data registerFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Join the Club", "/")
	data.PasswordRules = authutil.PasswordRules()
	data.GoogleEnabled = h.GoogleEnabled
	templates.Render(w, r, "register", data)
}
