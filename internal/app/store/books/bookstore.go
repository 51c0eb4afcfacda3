// internal/app/store/books/bookstore.go
package bookstore

import (
	"context"
	"errors"
	"time"

	"github.com/merrittsmen/clubhub/internal/app/system/normalize"
	"github.com/merrittsmen/clubhub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("book not found")

// Store owns the books collection and the review-row cascade: deleting
// a book removes its review records and reports their storage keys so
// the caller can clean up the blobs best-effort.
type Store struct {
	c       *mongo.Collection
	reviews *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("books"),
		reviews: db.Collection("book_reviews"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Book, error) {
	var b models.Book
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func (s *Store) Create(ctx context.Context, b models.Book) (models.Book, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.Title = normalize.Name(b.Title)
	b.TitleCI = text.Fold(b.Title)
	b.Author = normalize.Name(b.Author)
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

// Update replaces a book's details. A nil groupID unassigns the book.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, author string, year int, groupID *primitive.ObjectID) error {
	title = normalize.Name(title)
	set := bson.M{
		"title":      title,
		"title_ci":   text.Fold(title),
		"author":     normalize.Name(author),
		"year":       year,
		"updated_at": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if groupID != nil {
		set["group_id"] = *groupID
	} else {
		update["$unset"] = bson.M{"group_id": ""}
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all books, newest first.
func (s *Store) List(ctx context.Context) ([]models.Book, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Delete removes a book and its review rows, returning the storage keys
// of the deleted reviews. The keys come back even though the rows are
// gone: the blobs still need cleanup and the caller is the only layer
// holding a storage handle.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) ([]string, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if res.DeletedCount == 0 {
		return nil, ErrNotFound
	}

	cur, err := s.reviews.Find(ctx, bson.M{"book_id": id},
		options.Find().SetProjection(bson.M{"file_path": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var paths []string
	for cur.Next(ctx) {
		var doc struct {
			FilePath string `bson:"file_path"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		if doc.FilePath != "" {
			paths = append(paths, doc.FilePath)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if _, err := s.reviews.DeleteMany(ctx, bson.M{"book_id": id}); err != nil {
		return paths, err
	}
	return paths, nil
}
