package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/repository"
)

// seedCatalog creates a user and four elements, returning the user.
func seedCatalog(t *testing.T, uow *UnitOfWork) *model.User {
	t.Helper()
	user := addTestUser(t, uow, "u1", "alice")
	addTestElement(t, uow, "e1", "Apple", 52)
	addTestElement(t, uow, "e2", "Banana", 89)
	addTestElement(t, uow, "e3", "Cherry", 50)
	addTestElement(t, uow, "e4", "Date", 282)
	return user
}

func createTestTierList(t *testing.T, uow *UnitOfWork, tierList *model.TierList) {
	t.Helper()
	err := uow.Do(context.Background(), func(r repository.Repository) error {
		return r.CreateTierList(context.Background(), tierList)
	})
	if err != nil {
		t.Fatalf("failed to create test tier list: %v", err)
	}
}

func getFirstTierList(t *testing.T, uow *UnitOfWork, userID string) model.TierList {
	t.Helper()
	var tierLists []model.TierList
	err := uow.Do(context.Background(), func(r repository.Repository) error {
		var err error
		tierLists, err = r.GetUserTierLists(context.Background(), userID)
		return err
	})
	if err != nil {
		t.Fatalf("failed to read tier lists: %v", err)
	}
	if len(tierLists) == 0 {
		t.Fatal("no tier list found for user")
	}
	return tierLists[0]
}

func TestCreateTierList_RoundTrip(t *testing.T) {
	_, uow := newTestUoW(t)
	user := seedCatalog(t, uow)

	categories := []model.Category{
		{Name: "S", ElementIDs: []string{"e2", "e1"}}, // order matters, deliberately not e1,e2
		{Name: "A", ElementIDs: []string{"e4", "e3", "e1"}},
		{Name: "B", ElementIDs: []string{}},
	}
	tierList := &model.TierList{
		UserID:     user.ID,
		Name:       "fruit ranking",
		Categories: categories,
	}
	createTestTierList(t, uow, tierList)

	if tierList.ID == "" {
		t.Error("CreateTierList() did not write back the generated id")
	}

	got := getFirstTierList(t, uow, user.ID)
	if got.ID != tierList.ID {
		t.Errorf("ID = %q, want %q", got.ID, tierList.ID)
	}
	if got.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", got.UserID, user.ID)
	}
	if got.Name != "fruit ranking" {
		t.Errorf("Name = %q, want %q", got.Name, "fruit ranking")
	}
	if !reflect.DeepEqual(got.Categories, categories) {
		t.Errorf("Categories round-trip mismatch:\n got  %+v\n want %+v", got.Categories, categories)
	}
}

// A user's tier list starts out empty (name "", zero categories) at
// registration and must round-trip that way.
func TestCreateTierList_Empty(t *testing.T) {
	_, uow := newTestUoW(t)
	user := addTestUser(t, uow, "u1", "alice")

	tierList := &model.TierList{UserID: user.ID, Name: "", Categories: []model.Category{}}
	createTestTierList(t, uow, tierList)

	got := getFirstTierList(t, uow, user.ID)
	if got.Name != "" {
		t.Errorf("Name = %q, want empty", got.Name)
	}
	if len(got.Categories) != 0 {
		t.Errorf("Categories = %+v, want none", got.Categories)
	}
}

func TestUpdateTierList_FullReplace(t *testing.T) {
	db, uow := newTestUoW(t)
	user := seedCatalog(t, uow)

	tierList := &model.TierList{
		UserID: user.ID,
		Name:   "before",
		Categories: []model.Category{
			{Name: "S", ElementIDs: []string{"e1", "e2"}},
			{Name: "A", ElementIDs: []string{"e3"}},
		},
	}
	createTestTierList(t, uow, tierList)

	replacement := &model.TierList{
		UserID: user.ID,
		Name:   "after",
		Categories: []model.Category{
			{Name: "Fruits", ElementIDs: []string{"e4"}},
		},
	}
	err := uow.Do(context.Background(), func(r repository.Repository) error {
		return r.UpdateTierList(context.Background(), tierList.ID, replacement)
	})
	if err != nil {
		t.Fatalf("UpdateTierList() error = %v", err)
	}

	got := getFirstTierList(t, uow, user.ID)
	if got.ID != tierList.ID {
		t.Errorf("tier list identity changed on update: %q → %q", tierList.ID, got.ID)
	}
	if got.Name != "after" {
		t.Errorf("Name = %q, want %q", got.Name, "after")
	}
	if len(got.Categories) != 1 {
		t.Fatalf("%d categories after replace, want exactly 1", len(got.Categories))
	}
	if got.Categories[0].Name != "Fruits" {
		t.Errorf("category name = %q, want %q", got.Categories[0].Name, "Fruits")
	}

	// No orphaned category or link rows may remain from the old tree.
	var categoryCount, linkCount int
	if err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM tier_list_categories`).Scan(&categoryCount); err != nil {
		t.Fatalf("counting categories: %v", err)
	}
	if err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM tier_list_elements`).Scan(&linkCount); err != nil {
		t.Fatalf("counting links: %v", err)
	}
	if categoryCount != 1 {
		t.Errorf("category rows = %d, want 1 (orphans left behind)", categoryCount)
	}
	if linkCount != 1 {
		t.Errorf("link rows = %d, want 1 (orphans left behind)", linkCount)
	}
}

// Writing the same logical content twice reads back identically both
// times, although the underlying category rows get fresh identities on
// every write.
func TestUpdateTierList_IdempotentShape(t *testing.T) {
	db, uow := newTestUoW(t)
	user := seedCatalog(t, uow)

	tierList := &model.TierList{UserID: user.ID, Name: "", Categories: []model.Category{}}
	createTestTierList(t, uow, tierList)

	content := model.TierList{
		UserID: user.ID,
		Name:   "stable",
		Categories: []model.Category{
			{Name: "S", ElementIDs: []string{"e2", "e1"}},
			{Name: "A", ElementIDs: []string{"e3"}},
		},
	}

	categoryIDs := func() []string {
		rows, err := db.conn.Query(
			`SELECT id FROM tier_list_categories ORDER BY number`)
		if err != nil {
			t.Fatalf("querying category ids: %v", err)
		}
		defer rows.Close()
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				t.Fatalf("scanning category id: %v", err)
			}
			ids = append(ids, id)
		}
		return ids
	}

	update := func() model.TierList {
		in := content
		err := uow.Do(context.Background(), func(r repository.Repository) error {
			return r.UpdateTierList(context.Background(), tierList.ID, &in)
		})
		if err != nil {
			t.Fatalf("UpdateTierList() error = %v", err)
		}
		return getFirstTierList(t, uow, user.ID)
	}

	first := update()
	firstIDs := categoryIDs()
	second := update()
	secondIDs := categoryIDs()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reads differ between identical updates:\n first  %+v\n second %+v", first, second)
	}
	if reflect.DeepEqual(firstIDs, secondIDs) {
		t.Errorf("category identities were reused across updates: %v", firstIDs)
	}
}

// A category referencing an element that is not in the catalog trips the
// foreign key when the link row is inserted.
func TestUpdateTierList_DanglingElementConflict(t *testing.T) {
	_, uow := newTestUoW(t)
	user := addTestUser(t, uow, "u1", "alice")

	tierList := &model.TierList{UserID: user.ID, Name: "", Categories: []model.Category{}}
	createTestTierList(t, uow, tierList)

	err := uow.Do(context.Background(), func(r repository.Repository) error {
		return r.UpdateTierList(context.Background(), tierList.ID, &model.TierList{
			UserID: user.ID,
			Name:   "bad",
			Categories: []model.Category{
				{Name: "S", ElementIDs: []string{"no-such-element"}},
			},
		})
	})
	if err == nil {
		t.Fatal("UpdateTierList() should have failed on a dangling element id")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("UpdateTierList() error = %v, want ErrConflict", err)
	}

	// The rollback must also have undone the delete half of the replace.
	got := getFirstTierList(t, uow, user.ID)
	if got.Name != "" || len(got.Categories) != 0 {
		t.Errorf("tier list mutated by a failed update: %+v", got)
	}
}

func TestGetUserTierLists_NoLists(t *testing.T) {
	_, uow := newTestUoW(t)
	addTestUser(t, uow, "u1", "alice")

	err := uow.Do(context.Background(), func(r repository.Repository) error {
		tierLists, err := r.GetUserTierLists(context.Background(), "u1")
		if err != nil {
			return err
		}
		if len(tierLists) != 0 {
			t.Errorf("GetUserTierLists() = %+v, want empty", tierLists)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

// toStorage / toDomain are pure; a map-then-unmap cycle preserves the
// nested ordering exactly and mints fresh identities on every mapping.
func TestMapping_PureRoundTrip(t *testing.T) {
	in := &model.TierList{
		UserID: "u1",
		Name:   "n",
		Categories: []model.Category{
			{Name: "S", ElementIDs: []string{"e3", "e1", "e2"}},
			{Name: "A", ElementIDs: []string{}},
		},
	}

	rowA := toStorage(in)
	rowB := toStorage(in)

	if rowA.ID == rowB.ID {
		t.Error("toStorage() reused a tier-list identity")
	}
	for i := range rowA.Categories {
		if rowA.Categories[i].ID == rowB.Categories[i].ID {
			t.Errorf("toStorage() reused category identity at index %d", i)
		}
		if rowA.Categories[i].Number != i {
			t.Errorf("category number = %d, want positional index %d", rowA.Categories[i].Number, i)
		}
	}
	for j, link := range rowA.Categories[0].Elements {
		if link.Number != j {
			t.Errorf("link number = %d, want positional index %d", link.Number, j)
		}
		if link.CategoryID != rowA.Categories[0].ID {
			t.Error("link not keyed by its category's id")
		}
	}

	out := toDomain(rowA)
	if out.UserID != in.UserID || out.Name != in.Name {
		t.Errorf("toDomain() = %+v", out)
	}
	if !reflect.DeepEqual(out.Categories, in.Categories) {
		t.Errorf("mapping round-trip mismatch:\n got  %+v\n want %+v", out.Categories, in.Categories)
	}
}
