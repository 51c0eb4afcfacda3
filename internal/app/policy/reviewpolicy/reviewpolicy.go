// Package reviewpolicy decides who may act on uploaded book reviews.
//
// Authorization rules:
//   - Any approved member can upload a review and download any review.
//   - Only the member who uploaded a review, or an admin, can delete it.
package reviewpolicy

import (
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"github.com/merrittsmen/clubhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanUpload reports whether the user may attach a review to a book.
func CanUpload(u *auth.SessionUser) bool {
	return authz.IsApproved(u)
}

// CanDownload reports whether the user may fetch a review file. Reviews
// are shared within the club, so approval is the only gate.
func CanDownload(u *auth.SessionUser) bool {
	return authz.IsApproved(u)
}

// CanDelete reports whether the user may remove a review. The uploader
// owns their review; admins can clean up anything.
func CanDelete(u *auth.SessionUser, uploaderID primitive.ObjectID) bool {
	if !authz.IsApproved(u) {
		return false
	}
	if authz.IsAdmin(u) {
		return true
	}
	return u.ID == uploaderID.Hex()
}
