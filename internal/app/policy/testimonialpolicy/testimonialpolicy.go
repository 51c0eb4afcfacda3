// Package testimonialpolicy decides who may act on testimonials.
//
// Authorization rules:
//   - Any approved member can post a testimonial.
//   - Only the author can edit their testimonial; admin does not grant
//     edit rights (editing puts words in someone's mouth).
//   - The author or an admin can delete one.
package testimonialpolicy

import (
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanCreate reports whether the user may post a testimonial.
func CanCreate(u *auth.SessionUser) bool {
	return authz.IsApproved(u)
}

// CanEdit reports whether the user may change a testimonial's text.
func CanEdit(u *auth.SessionUser, authorID primitive.ObjectID) bool {
	return authz.IsApproved(u) && u.ID == authorID.Hex()
}

// CanDelete reports whether the user may remove a testimonial.
func CanDelete(u *auth.SessionUser, authorID primitive.ObjectID) bool {
	if !authz.IsApproved(u) {
		return false
	}
	if authz.IsAdmin(u) {
		return true
	}
	return u.ID == authorID.Hex()
}
