// internal/domain/models/book.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a title the club has read. GroupID is optional; books without
// one are shown under "Unassigned".
//
// Deleting a book cascades to its reviews (rows are removed by the book
// store; review files are cleaned up best-effort by the caller).
type Book struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title   string              `bson:"title" json:"title"`
	TitleCI string              `bson:"title_ci" json:"title_ci"`
	Author  string              `bson:"author" json:"author"`
	Year    int                 `bson:"year" json:"year"`
	GroupID *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
