package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/model"
)

func newTestTierListService(t *testing.T) (*TierListService, *ElementService, *mockUoW) {
	t.Helper()
	uow := newMockUoW()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTierListService(uow, logger), NewElementService(uow, logger), uow
}

// seedUserWithTierList plants a user and their tier list directly in the
// mock, the way registration would.
func seedUserWithTierList(t *testing.T, uow *mockUoW, userID string) {
	t.Helper()
	err := uow.repo.AddUser(context.Background(), &model.User{
		ID: userID, Login: "user-" + userID, PasswordHash: "x",
	})
	require.NoError(t, err)
	err = uow.repo.CreateTierList(context.Background(), &model.TierList{
		UserID: userID, Name: "", Categories: []model.Category{},
	})
	require.NoError(t, err)
}

func TestTierListGet_ResolvesElements(t *testing.T) {
	tls, els, uow := newTestTierListService(t)
	seedUserWithTierList(t, uow, "u1")

	apple, err := els.Create(context.Background(), "Apple", 52)
	require.NoError(t, err)
	banana, err := els.Create(context.Background(), "Banana", 89)
	require.NoError(t, err)

	err = tls.Update(context.Background(), "u1", "fruits", []model.Category{
		{Name: "Fruits", ElementIDs: []string{apple.ID, banana.ID}},
	})
	require.NoError(t, err)

	view, err := tls.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "fruits", view.Name)
	require.Len(t, view.Categories, 1)
	require.Len(t, view.Categories[0].Elements, 2)
	assert.Equal(t, "Apple", view.Categories[0].Elements[0].Name)
	assert.Equal(t, 52, view.Categories[0].Elements[0].Calories)
	assert.Equal(t, "Banana", view.Categories[0].Elements[1].Name)
	assert.Equal(t, 89, view.Categories[0].Elements[1].Calories)
}

func TestTierListGet_DanglingElementFails(t *testing.T) {
	tls, _, uow := newTestTierListService(t)
	seedUserWithTierList(t, uow, "u1")

	err := tls.Update(context.Background(), "u1", "bad", []model.Category{
		{Name: "S", ElementIDs: []string{"no-such-element"}},
	})
	require.NoError(t, err, "the mock does not enforce foreign keys")

	_, err = tls.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTierListGet_UserWithoutTierList(t *testing.T) {
	tls, _, _ := newTestTierListService(t)

	_, err := tls.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTierListUpdate_ReplacesContent(t *testing.T) {
	tls, _, uow := newTestTierListService(t)
	seedUserWithTierList(t, uow, "u1")

	err := tls.Update(context.Background(), "u1", "v1", []model.Category{
		{Name: "S", ElementIDs: []string{}},
		{Name: "A", ElementIDs: []string{}},
	})
	require.NoError(t, err)

	err = tls.Update(context.Background(), "u1", "v2", []model.Category{
		{Name: "Only", ElementIDs: []string{}},
	})
	require.NoError(t, err)

	view, err := tls.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "v2", view.Name)
	require.Len(t, view.Categories, 1)
	assert.Equal(t, "Only", view.Categories[0].Name)
}

func TestElementCreate_Validation(t *testing.T) {
	_, els, _ := newTestTierListService(t)

	_, err := els.Create(context.Background(), "", 10)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = els.Create(context.Background(), "Apple", -1)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestElementList(t *testing.T) {
	_, els, _ := newTestTierListService(t)

	_, err := els.Create(context.Background(), "Apple", 52)
	require.NoError(t, err)
	_, err = els.Create(context.Background(), "Banana", 89)
	require.NoError(t, err)

	elements, err := els.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, elements, 2)
}
