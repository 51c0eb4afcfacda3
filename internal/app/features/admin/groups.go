// internal/app/features/admin/groups.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// adminGroupVM is one group row with its roster.
type adminGroupVM struct {
	models.Group
	Members []models.Member
}

// groupFormData feeds the new/edit group form.
type groupFormData struct {
	viewdata.BaseVM
	Error   string
	Editing bool
	EditID  string
	Number  string
	Year    string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/groups                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", faults.Fetch("groups", err), "Could not load the groups.", "/admin")
		return
	}
	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", faults.Fetch("members", err), "Could not load the rosters.", "/admin")
		return
	}

	byGroup := make(map[string][]models.Member, len(groups))
	for _, m := range members {
		key := m.GroupID.Hex()
		byGroup[key] = append(byGroup[key], m)
	}

	vms := make([]adminGroupVM, 0, len(groups))
	for _, g := range groups {
		vms = append(vms, adminGroupVM{Group: g, Members: byGroup[g.ID.Hex()]})
	}

	data := struct {
		viewdata.BaseVM
		Groups []adminGroupVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Manage Groups", "/admin"),
		Groups: vms,
	}
	templates.Render(w, r, "admin_groups", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/groups/new, POST /admin/groups                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewGroup(w http.ResponseWriter, r *http.Request) {
	h.renderGroupForm(w, r, groupFormData{Year: strconv.Itoa(time.Now().Year())})
}

func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse group form failed", err, "Invalid form data.", "/admin/groups")
		return
	}

	numberStr := strings.TrimSpace(r.FormValue("group_number"))
	yearStr := strings.TrimSpace(r.FormValue("year"))

	reRender := func(msg string) {
		h.renderGroupForm(w, r, groupFormData{Error: msg, Number: numberStr, Year: yearStr})
	}

	number, year, msg := parseGroupFields(numberStr, yearStr)
	if msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.Create(ctx, models.Group{Number: number, Year: year})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			reRender("That group already exists for that year.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create group failed", faults.Mutation("group insert", err), "The group could not be created.", "/admin/groups")
		return
	}

	actorID := actorObjectID(r)
	h.AuditLog.GroupCreated(ctx, r, actorID, g.ID, g.Name)
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/groups/{groupID}/edit, POST /admin/groups/{groupID}/edit         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEditGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	h.renderGroupForm(w, r, groupFormData{
		Editing: true,
		EditID:  g.ID.Hex(),
		Number:  strconv.Itoa(g.Number),
		Year:    strconv.Itoa(g.Year),
	})
}

func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse group form failed", err, "Invalid form data.", "/admin/groups")
		return
	}

	numberStr := strings.TrimSpace(r.FormValue("group_number"))
	yearStr := strings.TrimSpace(r.FormValue("year"))

	reRender := func(msg string) {
		h.renderGroupForm(w, r, groupFormData{
			Error: msg, Editing: true, EditID: g.ID.Hex(),
			Number: numberStr, Year: yearStr,
		})
	}

	number, year, msg := parseGroupFields(numberStr, yearStr)
	if msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Groups.Update(ctx, g.ID, number, year); err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			reRender("That group already exists for that year.")
			return
		}
		if errors.Is(err, groupstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "edit of unknown group", "Group not found.", "/admin/groups")
			return
		}
		h.ErrLog.LogServerError(w, r, "update group failed", faults.Mutation("group update", err), "The group could not be saved.", "/admin/groups")
		return
	}

	h.AuditLog.GroupUpdated(ctx, r, actorObjectID(r), g.ID, groupstore.DisplayName(number, year))
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/groups/{groupID}/delete – cascades to the roster                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	removed, err := h.Groups.Delete(ctx, g.ID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "delete of unknown group", "Group not found.", "/admin/groups")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete group failed", faults.Mutation("group delete", err), "The group could not be deleted.", "/admin/groups")
		return
	}

	h.AuditLog.GroupDeleted(ctx, r, actorObjectID(r), g.ID, g.Name)
	h.Log.Info("group deleted",
		zap.String("group_id", g.ID.Hex()),
		zap.Int64("members_removed", removed))

	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// parseGroupFields validates the two numeric form fields. An empty msg
// means both parsed.
func parseGroupFields(numberStr, yearStr string) (number, year int, msg string) {
	number, err := strconv.Atoi(numberStr)
	if err != nil || number < 1 {
		return 0, 0, "Group number must be a positive number."
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil || year < 1900 || year > 2200 {
		return 0, 0, "Year must be a four-digit year."
	}
	return number, year, ""
}

func (h *Handler) loadGroup(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad group id", "Group not found.", "/admin/groups")
		return models.Group{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "unknown group", "Group not found.", "/admin/groups")
			return models.Group{}, false
		}
		h.ErrLog.LogServerError(w, r, "load group failed", err, "Could not load the group.", "/admin/groups")
		return models.Group{}, false
	}
	return g, true
}

func (h *Handler) renderGroupForm(w http.ResponseWriter, r *http.Request, data groupFormData) {
	title := "New Group"
	if data.Editing {
		title = "Edit Group"
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, "/admin/groups")
	templates.Render(w, r, "admin_group_form", data)
}

// actorObjectID returns the acting admin's id; guards upstream
// guarantee a signed-in admin, so a zero id only happens in tests.
func actorObjectID(r *http.Request) primitive.ObjectID {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID
	}
	id, _ := primitive.ObjectIDFromHex(u.ID)
	return id
}
