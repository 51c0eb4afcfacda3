// internal/app/features/pending/handler.go
package pending

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler serves the "application under review" page shown to signed-in
// members who have not been approved yet.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServePending handles GET /pending. Members who are already approved
// have no business here and go straight to the member pages.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok && u.Approved {
		http.Redirect(w, r, auth.MemberURL, http.StatusSeeOther)
		return
	}

	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Awaiting Approval", "/"),
	}
	templates.Render(w, r, "pending", data)
}
