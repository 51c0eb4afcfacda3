// internal/app/features/admin/members.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	memberstore "github.com/merrittsmen/clubhub/internal/app/store/members"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// memberFormData feeds the add/edit member form.
type memberFormData struct {
	viewdata.BaseVM
	Error     string
	Editing   bool
	EditID    string
	GroupID   string
	GroupName string
	Name      string
	Position  string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/groups/{groupID}/members/new, POST .../members                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewMember(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	h.renderMemberForm(w, r, memberFormData{GroupID: g.ID.Hex(), GroupName: g.Name})
}

func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse member form failed", err, "Invalid form data.", "/admin/groups")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	positionStr := strings.TrimSpace(r.FormValue("position"))

	reRender := func(msg string) {
		h.renderMemberForm(w, r, memberFormData{
			Error: msg, GroupID: g.ID.Hex(), GroupName: g.Name,
			Name: name, Position: positionStr,
		})
	}

	if name == "" {
		reRender("Please enter the member's name.")
		return
	}
	position, msg := parsePosition(positionStr)
	if msg != "" {
		reRender(msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.Create(ctx, models.Member{
		GroupID:  g.ID,
		Name:     name,
		Position: position,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create member failed", faults.Mutation("member insert", err), "The member could not be added.", "/admin/groups")
		return
	}

	h.AuditLog.MemberAdded(ctx, r, actorObjectID(r), m.ID, g.ID, m.Name)
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/members/{memberID}/edit, POST .../edit, POST .../delete          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEditMember(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	groupName := ""
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if g, err := h.Groups.GetByID(ctx, m.GroupID); err == nil {
		groupName = g.Name
	}

	h.renderMemberForm(w, r, memberFormData{
		Editing:   true,
		EditID:    m.ID.Hex(),
		GroupID:   m.GroupID.Hex(),
		GroupName: groupName,
		Name:      m.Name,
		Position:  strconv.Itoa(m.Position),
	})
}

func (h *Handler) HandleEditMember(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse member form failed", err, "Invalid form data.", "/admin/groups")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	positionStr := strings.TrimSpace(r.FormValue("position"))

	reRender := func(msg string) {
		h.renderMemberForm(w, r, memberFormData{
			Error: msg, Editing: true, EditID: m.ID.Hex(),
			GroupID: m.GroupID.Hex(), Name: name, Position: positionStr,
		})
	}

	if name == "" {
		reRender("Please enter the member's name.")
		return
	}
	position, msg := parsePosition(positionStr)
	if msg != "" {
		reRender(msg)
		return
	}
	if position <= 0 {
		position = m.Position
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Members.Update(ctx, m.ID, name, position); err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "edit of unknown member", "Member not found.", "/admin/groups")
			return
		}
		h.ErrLog.LogServerError(w, r, "update member failed", faults.Mutation("member update", err), "The member could not be saved.", "/admin/groups")
		return
	}

	h.AuditLog.MemberUpdated(ctx, r, actorObjectID(r), m.ID, m.GroupID, name)
	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

func (h *Handler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMember(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Members.Delete(ctx, m.ID); err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "delete of unknown member", "Member not found.", "/admin/groups")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete member failed", faults.Mutation("member delete", err), "The member could not be removed.", "/admin/groups")
		return
	}

	h.AuditLog.MemberRemoved(ctx, r, actorObjectID(r), m.ID, m.GroupID, m.Name)
	h.Log.Info("member removed",
		zap.String("member_id", m.ID.Hex()),
		zap.String("group_id", m.GroupID.Hex()))

	http.Redirect(w, r, "/admin/groups", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// parsePosition accepts an empty field (append to the end of the
// roster) or a positive integer.
func parsePosition(s string) (int, string) {
	if s == "" {
		return 0, ""
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, "Position must be a positive number, or blank for the end of the roster."
	}
	return n, ""
}

func (h *Handler) loadMember(w http.ResponseWriter, r *http.Request) (models.Member, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad member id", "Member not found.", "/admin/groups")
		return models.Member{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "unknown member", "Member not found.", "/admin/groups")
			return models.Member{}, false
		}
		h.ErrLog.LogServerError(w, r, "load member failed", err, "Could not load the member.", "/admin/groups")
		return models.Member{}, false
	}
	return m, true
}

func (h *Handler) renderMemberForm(w http.ResponseWriter, r *http.Request, data memberFormData) {
	title := "Add Member"
	if data.Editing {
		title = "Edit Member"
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, "/admin/groups")
	templates.Render(w, r, "admin_member_form", data)
}
