// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/merrittsmen/clubhub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateGroupName = errors.New("a group with this number and year already exists")
	ErrNotFound           = errors.New("group not found")
)

// Store owns the groups collection plus the member cascade: deleting a
// group removes its roster in the same operation so callers can never
// leave orphaned members behind.
type Store struct {
	c       *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("groups"),
		members: db.Collection("members"),
	}
}

// DisplayName renders the canonical group name for a number/year pair.
func DisplayName(number, year int) string {
	return fmt.Sprintf("Group %d - %d", number, year)
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.Name = DisplayName(g.Number, g.Year)
	g.NameCI = text.Fold(g.Name)
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

// Update changes a group's number and year, re-deriving the stored name.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, number, year int) error {
	name := DisplayName(number, year)
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"group_number": number,
		"year":         year,
		"name":         name,
		"name_ci":      text.Fold(name),
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all groups, newest year first. Ties within a year keep a
// stable order by _id.
func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "year", Value: -1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Delete removes a group and cascades to its roster. Returns how many
// members were removed alongside the group, or ErrNotFound when the
// group does not exist (in which case the roster is left untouched).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, ErrNotFound
	}
	mres, err := s.members.DeleteMany(ctx, bson.M{"group_id": id})
	if err != nil {
		return 0, err
	}
	return mres.DeletedCount, nil
}
