// internal/app/features/admin/handler.go
package admin

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/storage"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	"github.com/merrittsmen/clubhub/internal/app/store/audit"
	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	loginstore "github.com/merrittsmen/clubhub/internal/app/store/logins"
	memberstore "github.com/merrittsmen/clubhub/internal/app/store/members"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the admin area: membership approvals, group and
// roster management, the book catalog, and the activity log.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Users   *userstore.Store
	Groups  *groupstore.Store
	Members *memberstore.Store
	Books   *bookstore.Store
	Logins  *loginstore.Store
	Audit   *audit.Store

	// Storage is needed for best-effort blob cleanup when a book delete
	// cascades to its reviews.
	Storage storage.Store
}

func NewHandler(
	users *userstore.Store,
	groups *groupstore.Store,
	members *memberstore.Store,
	books *bookstore.Store,
	logins *loginstore.Store,
	auditStore *audit.Store,
	store storage.Store,
	errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Users:    users,
		Groups:   groups,
		Members:  members,
		Books:    books,
		Logins:   logins,
		Audit:    auditStore,
		Storage:  store,
	}
}

// ServeRoot redirects /admin to the users tab.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
