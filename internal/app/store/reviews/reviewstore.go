// internal/app/store/reviews/reviewstore.go
package reviewstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/merrittsmen/clubhub/internal/domain/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("review not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("book_reviews")}
}

// StorageKey builds the blob key for an uploaded review. The key embeds
// the uploader and book ids, a millisecond timestamp, and a short random
// fragment so repeated uploads never collide, and keeps the original
// file extension so downloads get a sensible content type.
func StorageKey(userID, bookID primitive.ObjectID, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("reviews/%s/%s_%d_%s%s",
		userID.Hex(), bookID.Hex(), now.UnixMilli(), uuid.New().String()[:8], ext)
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var r models.Review
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// Create records an uploaded review. The blob must already be in
// storage under r.FilePath; callers delete it again if the insert
// fails.
func (s *Store) Create(ctx context.Context, r models.Review) (models.Review, error) {
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// List returns every review, newest first, for renders that join
// reviews onto books in memory.
func (s *Store) List(ctx context.Context) ([]models.Review, error) {
	return s.find(ctx, bson.M{})
}

// ListByBook returns one book's reviews, newest first.
func (s *Store) ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]models.Review, error) {
	return s.find(ctx, bson.M{"book_id": bookID})
}

// ListByUser returns one member's reviews, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Delete removes a review row. The caller deletes the blob; the row
// goes first so a failed blob delete leaves an orphan file, never a
// dangling link.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
