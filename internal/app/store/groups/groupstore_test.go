package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/merrittsmen/clubhub/internal/app/store/groups"
	memberstore "github.com/merrittsmen/clubhub/internal/app/store/members"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"github.com/merrittsmen/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Group{Number: 3, Year: 2024})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Group 3 - 2024" {
		t.Errorf("expected derived name, got %q", created.Name)
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Group{Number: 1, Year: 2024}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.Group{Number: 1, Year: 2024})
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("expected ErrDuplicateGroupName, got %v", err)
	}

	// Same number in a different year is fine.
	if _, err := store.Create(ctx, models.Group{Number: 1, Year: 2025}); err != nil {
		t.Errorf("Create for a different year failed: %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Group{Number: 2, Year: 2023})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Update(ctx, created.ID, 4, 2024); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Number != 4 || got.Year != 2024 {
		t.Errorf("expected number=4 year=2024, got number=%d year=%d", got.Number, got.Year)
	}
	if got.Name != "Group 4 - 2024" {
		t.Errorf("expected name re-derived, got %q", got.Name)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Update(ctx, primitive.NewObjectID(), 1, 2024)
	if !errors.Is(err, groupstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_List_YearDescending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, g := range []models.Group{
		{Number: 1, Year: 2022},
		{Number: 1, Year: 2024},
		{Number: 2, Year: 2024},
		{Number: 1, Year: 2023},
	} {
		if _, err := store.Create(ctx, g); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	groups, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
	for i := 1; i < len(groups); i++ {
		if groups[i].Year > groups[i-1].Year {
			t.Errorf("groups out of order at %d: year %d after %d",
				i, groups[i].Year, groups[i-1].Year)
		}
	}
	if groups[0].Year != 2024 || groups[len(groups)-1].Year != 2022 {
		t.Errorf("expected 2024 first and 2022 last, got %d and %d",
			groups[0].Year, groups[len(groups)-1].Year)
	}
}

func TestStore_Delete_CascadesMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	members := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group, err := store.Create(ctx, models.Group{Number: 1, Year: 2024})
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	other, err := store.Create(ctx, models.Group{Number: 2, Year: 2024})
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}

	for i, name := range []string{"Alpha", "Bravo", "Charlie"} {
		if _, err := members.Create(ctx, models.Member{
			GroupID: group.ID, Name: name, Position: i + 1,
		}); err != nil {
			t.Fatalf("Create member failed: %v", err)
		}
	}
	if _, err := members.Create(ctx, models.Member{
		GroupID: other.ID, Name: "Delta", Position: 1,
	}); err != nil {
		t.Fatalf("Create member failed: %v", err)
	}

	removed, err := store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 members removed, got %d", removed)
	}

	if _, err := store.GetByID(ctx, group.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected group gone, got %v", err)
	}

	// The other group's roster is untouched.
	rest, err := members.ListByGroup(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("expected 1 member left in other group, got %d", len(rest))
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Delete(ctx, primitive.NewObjectID())
	if !errors.Is(err, groupstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
