package reviewpolicy_test

import (
	"testing"

	"github.com/merrittsmen/clubhub/internal/app/policy/reviewpolicy"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanDelete(t *testing.T) {
	ownerID := primitive.NewObjectID()

	owner := &auth.SessionUser{ID: ownerID.Hex(), Approved: true}
	admin := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: true, IsAdmin: true}
	other := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: true}
	unapproved := &auth.SessionUser{ID: ownerID.Hex(), Approved: false}
	// An admin flag without approval carries no weight.
	revokedAdmin := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: false, IsAdmin: true}

	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"owner", owner, true},
		{"admin", admin, true},
		{"other member", other, false},
		{"unapproved owner", unapproved, false},
		{"revoked admin", revokedAdmin, false},
		{"anonymous", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reviewpolicy.CanDelete(tt.user, ownerID); got != tt.want {
				t.Errorf("CanDelete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanUploadAndDownload(t *testing.T) {
	member := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: true}
	pending := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: false}

	if !reviewpolicy.CanUpload(member) || !reviewpolicy.CanDownload(member) {
		t.Error("expected approved member to upload and download")
	}
	if reviewpolicy.CanUpload(pending) || reviewpolicy.CanDownload(pending) {
		t.Error("expected pending user to be denied")
	}
	if reviewpolicy.CanUpload(nil) || reviewpolicy.CanDownload(nil) {
		t.Error("expected anonymous user to be denied")
	}
}
