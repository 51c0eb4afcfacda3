package testimonialpolicy_test

import (
	"testing"

	"github.com/merrittsmen/clubhub/internal/app/policy/testimonialpolicy"
	"github.com/merrittsmen/clubhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanEdit_AuthorOnly(t *testing.T) {
	authorID := primitive.NewObjectID()

	author := &auth.SessionUser{ID: authorID.Hex(), Approved: true}
	admin := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: true, IsAdmin: true}

	if !testimonialpolicy.CanEdit(author, authorID) {
		t.Error("expected author to edit their own testimonial")
	}
	// Admins can delete but not rewrite someone's words.
	if testimonialpolicy.CanEdit(admin, authorID) {
		t.Error("expected admin to be denied edit of another's testimonial")
	}
	if testimonialpolicy.CanEdit(nil, authorID) {
		t.Error("expected anonymous user to be denied")
	}
}

func TestCanDelete(t *testing.T) {
	authorID := primitive.NewObjectID()

	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"author", &auth.SessionUser{ID: authorID.Hex(), Approved: true}, true},
		{"admin", &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: true, IsAdmin: true}, true},
		{"other member", &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Approved: true}, false},
		{"unapproved author", &auth.SessionUser{ID: authorID.Hex(), Approved: false}, false},
		{"anonymous", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testimonialpolicy.CanDelete(tt.user, authorID); got != tt.want {
				t.Errorf("CanDelete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreate(t *testing.T) {
	if !testimonialpolicy.CanCreate(&auth.SessionUser{ID: "x", Approved: true}) {
		t.Error("expected approved member to create")
	}
	if testimonialpolicy.CanCreate(&auth.SessionUser{ID: "x", Approved: false}) {
		t.Error("expected pending user to be denied")
	}
	if testimonialpolicy.CanCreate(nil) {
		t.Error("expected anonymous user to be denied")
	}
}
