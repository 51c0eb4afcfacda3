// Package authz provides pure predicates over the session identity.
// Guards and navigation live in auth; this package only answers
// questions about a user that handlers and templates share.
package authz

import (
	"net/http"

	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx extracts the common identity fields handlers need: display
// name, user id, approval/admin flags, and a signed-in flag.
func UserCtx(r *http.Request) (name string, uid primitive.ObjectID, approved, admin, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found || u == nil {
		return "", primitive.NilObjectID, false, false, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return "", primitive.NilObjectID, false, false, false
	}
	return u.Name, oid, u.Approved, IsAdmin(u), true
}

// IsSignedIn reports whether the request carries an identity.
func IsSignedIn(u *auth.SessionUser) bool { return u != nil }

// IsApproved reports whether the identity has been approved by an admin.
func IsApproved(u *auth.SessionUser) bool { return u != nil && u.Approved }

// IsAdmin is true only when both the admin and approved flags are set.
// A record with is_admin=true but approved=false is inconsistent and is
// treated as not-admin.
func IsAdmin(u *auth.SessionUser) bool { return u != nil && u.IsAdmin && u.Approved }
