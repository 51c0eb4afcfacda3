// internal/app/store/testimonials/testimonialstore.go
package testimonialstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/merrittsmen/clubhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("testimonial not found")
	ErrEmptyContent = errors.New("testimonial content is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("testimonials")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Testimonial, error) {
	var tm models.Testimonial
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tm); err != nil {
		return models.Testimonial{}, err
	}
	return tm, nil
}

func (s *Store) Create(ctx context.Context, tm models.Testimonial) (models.Testimonial, error) {
	tm.Title = strings.TrimSpace(tm.Title)
	tm.Content = strings.TrimSpace(tm.Content)
	if tm.Content == "" {
		return models.Testimonial{}, ErrEmptyContent
	}

	now := time.Now().UTC()
	tm.ID = primitive.NewObjectID()
	tm.CreatedAt = now
	tm.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, tm); err != nil {
		return models.Testimonial{}, err
	}
	return tm, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":      strings.TrimSpace(title),
		"content":    content,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all testimonials, newest first.
func (s *Store) List(ctx context.Context) ([]models.Testimonial, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Testimonial
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

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
