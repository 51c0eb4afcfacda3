// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group represents one cohort of the club, identified by its ordinal
// number and the year it ran.
//
// NOTE:
//   - Member rosters are not embedded; members live in the members
//     collection and reference their group by group_id.
//   - Deleting a group cascades to its members (handled by the group
//     store, not by callers).
type Group struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number int                `bson:"group_number" json:"group_number"`
	Year   int                `bson:"year" json:"year"`

	// Name is derived from Number and Year ("Group 3 - 2024") and kept
	// in the document so the unique name_ci index rejects duplicates.
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
