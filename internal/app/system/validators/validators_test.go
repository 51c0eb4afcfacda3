package validators_test

import (
	"testing"
	"time"

	"github.com/merrittsmen/clubhub/internal/app/system/validators"
	"github.com/merrittsmen/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expectedCollections := []string{
		"users",
		"groups",
		"members",
		"books",
		"book_reviews",
		"testimonials",
		"login_records",
		"audit_events",
		"oauth_states",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestUsersValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"full_name": "No Email",
	})
	if err == nil {
		t.Error("expected validation error when inserting user without required fields")
	}
}

func TestUsersValidator_ValidUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"email":        "test@example.com",
		"email_ci":     "test@example.com",
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"auth_method":  "password",
		"approved":     false,
		"is_admin":     false,
	})
	if err != nil {
		t.Errorf("Insert valid user failed: %v", err)
	}
}

func TestUsersValidator_InvalidAuthMethod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"email":        "test@example.com",
		"email_ci":     "test@example.com",
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"auth_method":  "invalid_auth",
	})
	if err == nil {
		t.Error("expected validation error when inserting user with invalid auth_method")
	}
}

func TestUsersValidator_AllValidAuthMethods(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	for i, method := range []string{"password", "google"} {
		email := "user" + string(rune('a'+i)) + "@example.com"
		_, err := db.Collection("users").InsertOne(ctx, bson.M{
			"email":        email,
			"email_ci":     email,
			"full_name":    "Test User " + method,
			"full_name_ci": "test user " + method,
			"auth_method":  method,
		})
		if err != nil {
			t.Errorf("Insert user with auth_method %q failed: %v", method, err)
		}
	}
}

func TestGroupsValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("groups").InsertOne(ctx, bson.M{
		"group_number": 3,
	})
	if err == nil {
		t.Error("expected validation error when inserting group without required fields")
	}
}

func TestGroupsValidator_ValidGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("groups").InsertOne(ctx, bson.M{
		"name":         "Group 1 - 2024",
		"name_ci":      "group 1 - 2024",
		"group_number": 1,
		"year":         2024,
	})
	if err != nil {
		t.Errorf("Insert valid group failed: %v", err)
	}
}

func TestMembersValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("members").InsertOne(ctx, bson.M{
		"name": "No Group",
	})
	if err == nil {
		t.Error("expected validation error when inserting member without required fields")
	}
}

func TestMembersValidator_ValidMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("members").InsertOne(ctx, bson.M{
		"group_id": primitive.NewObjectID(),
		"name":     "Jim Member",
		"name_ci":  "jim member",
		"position": 1,
	})
	if err != nil {
		t.Errorf("Insert valid member failed: %v", err)
	}
}

func TestBooksValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("books").InsertOne(ctx, bson.M{
		"year": 2020,
	})
	if err == nil {
		t.Error("expected validation error when inserting book without required fields")
	}
}

func TestBooksValidator_ValidBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("books").InsertOne(ctx, bson.M{
		"title":    "The Pilgrim's Progress",
		"title_ci": "the pilgrim's progress",
		"author":   "John Bunyan",
		"year":     1678,
	})
	if err != nil {
		t.Errorf("Insert valid book failed: %v", err)
	}
}

func TestBookReviewsValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("book_reviews").InsertOne(ctx, bson.M{
		"file_name": "review.pdf",
	})
	if err == nil {
		t.Error("expected validation error when inserting review without required fields")
	}
}

func TestBookReviewsValidator_ValidReview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("book_reviews").InsertOne(ctx, bson.M{
		"book_id":    primitive.NewObjectID(),
		"user_id":    primitive.NewObjectID(),
		"file_path":  "reviews/abc/def_123.pdf",
		"file_name":  "review.pdf",
		"created_at": time.Now(),
	})
	if err != nil {
		t.Errorf("Insert valid review failed: %v", err)
	}
}

func TestTestimonialsValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("testimonials").InsertOne(ctx, bson.M{
		"title": "No Content",
	})
	if err == nil {
		t.Error("expected validation error when inserting testimonial without required fields")
	}
}

func TestTestimonialsValidator_ValidTestimonial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("testimonials").InsertOne(ctx, bson.M{
		"user_id":    primitive.NewObjectID(),
		"title":      "A changed life",
		"content":    "This club changed how I read.",
		"created_at": time.Now(),
	})
	if err != nil {
		t.Errorf("Insert valid testimonial failed: %v", err)
	}
}

func TestLoginRecords_NoValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// login_records has no validator, so any document is accepted
	_, err := db.Collection("login_records").InsertOne(ctx, bson.M{
		"any_field": "any_value",
	})
	if err != nil {
		t.Errorf("Insert to login_records should succeed (no validator): %v", err)
	}
}
