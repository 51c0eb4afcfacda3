// internal/domain/models/auditevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records an auth or admin action for the audit trail.
type AuditEvent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Kind      string              `bson:"kind" json:"kind"` // e.g. "login_ok", "user_approved"
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	SubjectID *primitive.ObjectID `bson:"subject_id,omitempty" json:"subject_id,omitempty"`
	Email     string              `bson:"email,omitempty" json:"email,omitempty"`
	Detail    string              `bson:"detail,omitempty" json:"detail,omitempty"`
	RemoteIP  string              `bson:"remote_ip,omitempty" json:"remote_ip,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
