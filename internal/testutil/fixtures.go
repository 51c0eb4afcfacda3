package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given flags, bypassing the store's
// new-account defaults so tests can build approved users and admins
// directly.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, approved, isAdmin bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: models.AuthMethodPassword,
		Approved:   approved,
		IsAdmin:    isAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateApprovedMember creates an approved, non-admin user.
func (f *Fixtures) CreateApprovedMember(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, true, false)
}

// CreateAdmin creates an approved admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, true, true)
}

// CreatePendingUser creates an unapproved applicant.
func (f *Fixtures) CreatePendingUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, false, false)
}

// CreateGroup creates a group for the given number and year.
func (f *Fixtures) CreateGroup(ctx context.Context, number, year int) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	name := fmt.Sprintf("Group %d - %d", number, year)
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Number:    number,
		Year:      year,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateMember adds a roster entry to a group.
func (f *Fixtures) CreateMember(ctx context.Context, groupID primitive.ObjectID, name string, position int) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	member := models.Member{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		Name:      name,
		NameCI:    text.Fold(name),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateBook creates a book, optionally assigned to a group.
func (f *Fixtures) CreateBook(ctx context.Context, title, author string, groupID *primitive.ObjectID) models.Book {
	f.t.Helper()

	now := time.Now().UTC()
	book := models.Book{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Author:    author,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("books").InsertOne(ctx, book); err != nil {
		f.t.Fatalf("failed to create test book: %v", err)
	}
	return book
}

// CreateReview records an uploaded review for a book.
func (f *Fixtures) CreateReview(ctx context.Context, bookID, userID primitive.ObjectID, filePath, fileName string) models.Review {
	f.t.Helper()

	review := models.Review{
		ID:        primitive.NewObjectID(),
		BookID:    bookID,
		UserID:    userID,
		FilePath:  filePath,
		FileName:  fileName,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("book_reviews").InsertOne(ctx, review); err != nil {
		f.t.Fatalf("failed to create test review: %v", err)
	}
	return review
}

// CreateTestimonial creates a testimonial for the given author.
func (f *Fixtures) CreateTestimonial(ctx context.Context, userID primitive.ObjectID, title, content string) models.Testimonial {
	f.t.Helper()

	now := time.Now().UTC()
	tm := models.Testimonial{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("testimonials").InsertOne(ctx, tm); err != nil {
		f.t.Fatalf("failed to create test testimonial: %v", err)
	}
	return tm
}
