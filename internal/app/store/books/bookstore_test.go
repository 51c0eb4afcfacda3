package bookstore_test

import (
	"errors"
	"testing"

	bookstore "github.com/merrittsmen/clubhub/internal/app/store/books"
	reviewstore "github.com/merrittsmen/clubhub/internal/app/store/reviews"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"github.com/merrittsmen/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Book{
		Title:  "  The Pilgrim's Progress ",
		Author: "John Bunyan",
		Year:   1678,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Title != "The Pilgrim's Progress" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.TitleCI == "" {
		t.Error("expected TitleCI to be set")
	}
	if created.GroupID != nil {
		t.Error("expected no group assignment by default")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_List_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	titles := []string{"Oldest", "Middle", "Newest"}
	for _, title := range titles {
		if _, err := store.Create(ctx, models.Book{Title: title, Author: "A"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	books, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("expected 3 books, got %d", len(books))
	}
	for i := 1; i < len(books); i++ {
		if books[i].CreatedAt.After(books[i-1].CreatedAt) {
			t.Errorf("books out of order at %d", i)
		}
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Book{Title: "Draft", Author: "Anon"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	groupID := primitive.NewObjectID()
	if err := store.Update(ctx, created.ID, "Final", "Known Author", 1999, &groupID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Final" || got.Author != "Known Author" || got.Year != 1999 {
		t.Errorf("unexpected book after update: %+v", got)
	}
	if got.GroupID == nil || *got.GroupID != groupID {
		t.Errorf("expected group %v, got %v", groupID, got.GroupID)
	}

	// A nil group unassigns the book.
	if err := store.Update(ctx, created.ID, "Final", "Known Author", 1999, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err = store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.GroupID != nil {
		t.Errorf("expected group unassigned, got %v", got.GroupID)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Update(ctx, primitive.NewObjectID(), "T", "A", 2000, nil)
	if !errors.Is(err, bookstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete_CascadesReviews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookstore.New(db)
	reviews := reviewstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	book, err := store.Create(ctx, models.Book{Title: "Reviewed", Author: "A"})
	if err != nil {
		t.Fatalf("Create book failed: %v", err)
	}
	other, err := store.Create(ctx, models.Book{Title: "Untouched", Author: "B"})
	if err != nil {
		t.Fatalf("Create book failed: %v", err)
	}

	for _, path := range []string{"reviews/u1/b1_1.pdf", "reviews/u2/b1_2.pdf"} {
		if _, err := reviews.Create(ctx, models.Review{
			BookID:   book.ID,
			UserID:   primitive.NewObjectID(),
			FilePath: path,
			FileName: "review.pdf",
		}); err != nil {
			t.Fatalf("Create review failed: %v", err)
		}
	}
	kept, err := reviews.Create(ctx, models.Review{
		BookID:   other.ID,
		UserID:   primitive.NewObjectID(),
		FilePath: "reviews/u3/b2_1.pdf",
		FileName: "keep.pdf",
	})
	if err != nil {
		t.Fatalf("Create review failed: %v", err)
	}

	paths, err := store.Delete(ctx, book.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 orphaned blob paths, got %d: %v", len(paths), paths)
	}

	if _, err := store.GetByID(ctx, book.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected book gone, got %v", err)
	}
	remaining, err := reviews.ListByBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("ListByBook failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected reviews cascaded, found %d", len(remaining))
	}

	// The other book's review survives.
	if _, err := reviews.GetByID(ctx, kept.ID); err != nil {
		t.Errorf("expected other book's review to survive: %v", err)
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Delete(ctx, primitive.NewObjectID())
	if !errors.Is(err, bookstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
