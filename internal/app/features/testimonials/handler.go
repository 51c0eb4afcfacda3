// internal/app/features/testimonials/handler.go
package testimonials

import (
	"context"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	"github.com/merrittsmen/clubhub/internal/app/policy/testimonialpolicy"
	testimonialstore "github.com/merrittsmen/clubhub/internal/app/store/testimonials"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auditlog"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/htmlsanitize"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the testimonial wall.
type Handler struct {
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	AuditLog     *auditlog.Logger
	Testimonials *testimonialstore.Store
	Users        *userstore.Store
}

func NewHandler(
	testimonials *testimonialstore.Store,
	users *userstore.Store,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     audit,
		Testimonials: testimonials,
		Users:        users,
	}
}

// testimonialVM is one story on the wall. ContentHTML is the escaped
// content with newlines turned into line breaks.
type testimonialVM struct {
	models.Testimonial
	AuthorName  string
	ContentHTML template.HTML
	CanEdit     bool
	CanDelete   bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /testimonials – the wall, newest first                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, _ := auth.CurrentUser(r)

	vms, err := h.loadWall(ctx, u)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load testimonials failed", err, "Could not load the testimonials.", "/")
		return
	}

	data := struct {
		viewdata.BaseVM
		Testimonials []testimonialVM
		CanCreate    bool
	}{
		BaseVM:       viewdata.NewBaseVM(r, "Testimonials", "/"),
		Testimonials: vms,
		CanCreate:    testimonialpolicy.CanCreate(u),
	}
	templates.Render(w, r, "testimonials_list", data)
}

// loadWall reads testimonials and users, joins author names in memory,
// and pre-renders the escaped multiline content.
func (h *Handler) loadWall(ctx context.Context, u *auth.SessionUser) ([]testimonialVM, error) {
	tms, err := h.Testimonials.List(ctx)
	if err != nil {
		return nil, faults.Fetch("testimonials", err)
	}
	users, err := h.Users.List(ctx)
	if err != nil {
		return nil, faults.Fetch("users", err)
	}

	nameByID := make(map[string]string, len(users))
	for _, usr := range users {
		nameByID[usr.ID.Hex()] = usr.FullName
	}

	vms := make([]testimonialVM, 0, len(tms))
	for _, tm := range tms {
		name := nameByID[tm.UserID.Hex()]
		if name == "" {
			name = "Former member"
		}
		vms = append(vms, testimonialVM{
			Testimonial: tm,
			AuthorName:  name,
			ContentHTML: htmlsanitize.MultilineText(tm.Content),
			CanEdit:     testimonialpolicy.CanEdit(u, tm.UserID),
			CanDelete:   testimonialpolicy.CanDelete(u, tm.UserID),
		})
	}
	return vms, nil
}
