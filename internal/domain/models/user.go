// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSiteName is used when no site configuration is present.
const DefaultSiteName = "Merritt's Men"

// Auth methods recorded on a user.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// User represents a member account.
//
// NOTE:
//   - New accounts start unapproved and non-admin; an admin must approve
//     them before any member pages are reachable.
//   - IsAdmin is only meaningful together with Approved; the user store's
//     mutation methods keep the pair consistent (promote approves, revoke
//     clears both).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"email_ci"` // lowercase, diacritics-stripped
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method" json:"auth_method"` // password | google
	Approved     bool               `bson:"approved" json:"approved"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
