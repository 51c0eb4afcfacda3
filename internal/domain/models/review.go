// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is the metadata record for an uploaded book review. The file
// itself lives in blob storage under FilePath; FileName preserves the
// name the member uploaded so downloads keep it.
type Review struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID   primitive.ObjectID `bson:"book_id" json:"book_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	FilePath string             `bson:"file_path" json:"file_path"`
	FileName string             `bson:"file_name" json:"file_name"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
