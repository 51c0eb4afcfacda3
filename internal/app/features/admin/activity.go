// internal/app/features/admin/activity.go
package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/merrittsmen/clubhub/internal/app/store/audit"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
)

const activityPageSize = 100

// eventVM is one audit row with ids resolved to names for display.
type eventVM struct {
	audit.Event
	ActorName string
	UserName  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/activity – recent logins and the audit trail                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := audit.QueryFilter{Limit: activityPageSize}
	if cat := strings.TrimSpace(r.URL.Query().Get("category")); cat != "" {
		filter.Category = cat
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", faults.Fetch("audit events", err), "Could not load the activity log.", "/admin")
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", faults.Fetch("audit count", err), "Could not load the activity log.", "/admin")
		return
	}
	logins, err := h.Logins.ListRecent(ctx, 25)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list recent logins failed", faults.Fetch("logins", err), "Could not load the activity log.", "/admin")
		return
	}

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", faults.Fetch("users", err), "Could not load the activity log.", "/admin")
		return
	}
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.ID.Hex()] = u.FullName
	}

	vms := make([]eventVM, 0, len(events))
	for _, ev := range events {
		vm := eventVM{Event: ev}
		if ev.ActorID != nil {
			vm.ActorName = nameByID[ev.ActorID.Hex()]
		}
		if ev.UserID != nil {
			vm.UserName = nameByID[ev.UserID.Hex()]
		}
		vms = append(vms, vm)
	}

	data := struct {
		viewdata.BaseVM
		Category string
		Events   []eventVM
		Total    int64
		Logins   []models.LoginRecord
	}{
		BaseVM:   viewdata.NewBaseVM(r, "Activity", "/admin"),
		Category: filter.Category,
		Events:   vms,
		Total:    total,
		Logins:   logins,
	}
	templates.Render(w, r, "admin_activity", data)
}
