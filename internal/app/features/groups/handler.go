// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/merrittsmen/clubhub/internal/app/features/errors"
	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	memberstore "github.com/merrittsmen/clubhub/internal/app/store/members"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the member-facing group roster pages.
type Handler struct {
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Groups  *groupstore.Store
	Members *memberstore.Store
}

func NewHandler(groups *groupstore.Store, members *memberstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:     logger,
		ErrLog:  errLog,
		Groups:  groups,
		Members: members,
	}
}

// groupVM is one roster card: a group with its members in seating order.
type groupVM struct {
	models.Group
	Members []models.Member
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups – roster cards, newest year first                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	vms, err := h.loadRoster(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load roster failed", err, "Could not load the groups.", "/")
		return
	}

	data := struct {
		viewdata.BaseVM
		Groups []groupVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Groups", "/"),
		Groups: vms,
	}
	templates.Render(w, r, "groups_list", data)
}

// loadRoster does the two collection reads and joins members under
// their groups in memory. Either read failing abandons the whole fetch;
// there is no partial render.
func (h *Handler) loadRoster(ctx context.Context) ([]groupVM, error) {
	groups, err := h.Groups.List(ctx)
	if err != nil {
		return nil, faults.Fetch("groups", err)
	}
	members, err := h.Members.List(ctx)
	if err != nil {
		return nil, faults.Fetch("members", err)
	}

	byGroup := make(map[string][]models.Member, len(groups))
	for _, m := range members {
		key := m.GroupID.Hex()
		byGroup[key] = append(byGroup[key], m)
	}

	vms := make([]groupVM, 0, len(groups))
	for _, g := range groups {
		vms = append(vms, groupVM{
			Group:   g,
			Members: byGroup[g.ID.Hex()],
		})
	}
	return vms, nil
}
