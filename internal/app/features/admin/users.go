// internal/app/features/admin/users.go
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/app/system/viewdata"
	"github.com/merrittsmen/clubhub/internal/domain/faults"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users – pending applications first, then the whole club          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pending, err := h.Users.ListPending(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pending users failed", faults.Fetch("pending users", err), "Could not load the applications.", "/admin")
		return
	}
	all, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", faults.Fetch("users", err), "Could not load the members.", "/admin")
		return
	}

	data := struct {
		viewdata.BaseVM
		Pending []models.User
		Users   []models.User
	}{
		BaseVM:  viewdata.NewBaseVM(r, "Members", "/admin"),
		Pending: pending,
		Users:   all,
	}
	templates.Render(w, r, "admin_users", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/approve | revoke | promote | delete              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleApproveUser(w http.ResponseWriter, r *http.Request) {
	h.userFlagAction(w, r, "approve")
}

func (h *Handler) HandleRevokeUser(w http.ResponseWriter, r *http.Request) {
	h.userFlagAction(w, r, "revoke")
}

func (h *Handler) HandlePromoteUser(w http.ResponseWriter, r *http.Request) {
	h.userFlagAction(w, r, "promote")
}

// userFlagAction runs one of the three membership-flag mutations. The
// flag pairing rules live in the user store; this only decides who may
// be targeted and records the audit trail.
func (h *Handler) userFlagAction(w http.ResponseWriter, r *http.Request, action string) {
	actor, target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	// Admins do not change their own standing; another admin must.
	if actor.ID == target.ID.Hex() && action != "approve" {
		h.ErrLog.LogForbidden(w, r, "admin self-"+action+" blocked", "You cannot change your own membership standing.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actorID, _ := primitive.ObjectIDFromHex(actor.ID)

	var err error
	switch action {
	case "approve":
		err = h.Users.Approve(ctx, target.ID)
	case "revoke":
		err = h.Users.Revoke(ctx, target.ID)
	case "promote":
		err = h.Users.Promote(ctx, target.ID)
	}
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, action+" of unknown user", "Member not found.", "/admin/users")
			return
		}
		h.ErrLog.LogServerError(w, r, action+" user failed", faults.Mutation(action, err), "The change could not be saved.", "/admin/users")
		return
	}

	switch action {
	case "approve":
		h.AuditLog.UserApproved(ctx, r, actorID, target.ID, target.Email)
	case "revoke":
		h.AuditLog.UserRevoked(ctx, r, actorID, target.ID, target.Email)
	case "promote":
		h.AuditLog.UserPromoted(ctx, r, actorID, target.ID, target.Email)
	}

	h.Log.Info("membership flags changed",
		zap.String("action", action),
		zap.String("target_id", target.ID.Hex()),
		zap.String("actor_id", actor.ID))

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, target, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	if actor.ID == target.ID.Hex() {
		h.ErrLog.LogForbidden(w, r, "admin self-delete blocked", "You cannot delete your own account from here.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "delete of unknown user", "Member not found.", "/admin/users")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete user failed", faults.Mutation("user delete", err), "The member could not be deleted.", "/admin/users")
		return
	}

	actorID, _ := primitive.ObjectIDFromHex(actor.ID)
	h.AuditLog.UserDeleted(ctx, r, actorID, target.ID, target.Email)
	h.Log.Info("user deleted",
		zap.String("target_id", target.ID.Hex()),
		zap.String("actor_id", actor.ID))

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// resolveTarget loads the acting admin from the session and the target
// user from {userID}. It renders the error page itself on failure.
func (h *Handler) resolveTarget(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, *models.User, bool) {
	actor, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad user id", "Member not found.", "/admin/users")
		return nil, nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "unknown user", "Member not found.", "/admin/users")
			return nil, nil, false
		}
		h.ErrLog.LogServerError(w, r, "load user failed", err, "Could not load the member.", "/admin/users")
		return nil, nil, false
	}
	return actor, target, true
}
