package service

import (
	"context"
	"fmt"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/repository"
)

// mockRepo is an in-memory repository.Repository used to test the
// service layer without SQLite. It reproduces the contract's lookup
// semantics: absent users return (nil, nil), absent elements fail with
// NotFound, duplicate logins fail with Conflict.
type mockRepo struct {
	users     map[string]*model.User
	elements  map[string]*model.Element
	tierLists map[string]*model.TierList
	nextID    int
}

var _ repository.Repository = (*mockRepo)(nil)

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:     make(map[string]*model.User),
		elements:  make(map[string]*model.Element),
		tierLists: make(map[string]*model.TierList),
	}
}

func (m *mockRepo) AddUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Login == user.Login {
			return apperror.Conflict("unique constraint violated: users.login")
		}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	result := *user
	return &result, nil
}

func (m *mockRepo) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.Login == login {
			result := *u
			return &result, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) GetElements(_ context.Context) ([]model.Element, error) {
	result := make([]model.Element, 0, len(m.elements))
	for _, e := range m.elements {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockRepo) AddElement(_ context.Context, element *model.Element) error {
	stored := *element
	m.elements[element.ID] = &stored
	return nil
}

func (m *mockRepo) GetElement(_ context.Context, id string) (*model.Element, error) {
	element, ok := m.elements[id]
	if !ok {
		return nil, apperror.NotFound("element", id)
	}
	result := *element
	return &result, nil
}

func (m *mockRepo) GetUserTierLists(_ context.Context, userID string) ([]model.TierList, error) {
	result := make([]model.TierList, 0, 1)
	for _, tl := range m.tierLists {
		if tl.UserID == userID {
			result = append(result, *tl)
		}
	}
	return result, nil
}

func (m *mockRepo) CreateTierList(_ context.Context, tierList *model.TierList) error {
	m.nextID++
	tierList.ID = fmt.Sprintf("mock-tl-%d", m.nextID)
	stored := *tierList
	m.tierLists[tierList.ID] = &stored
	return nil
}

func (m *mockRepo) UpdateTierList(_ context.Context, tierListID string, tierList *model.TierList) error {
	stored := *tierList
	stored.ID = tierListID
	m.tierLists[tierListID] = &stored
	return nil
}

// mockUoW hands every scope the same mockRepo. Rollback is not
// simulated — transactional behavior is covered by the sqlite package's
// own tests; here only the orchestration above it is under test.
type mockUoW struct {
	repo *mockRepo
}

var _ repository.UnitOfWork = (*mockUoW)(nil)

func newMockUoW() *mockUoW {
	return &mockUoW{repo: newMockRepo()}
}

func (m *mockUoW) Do(_ context.Context, fn func(repository.Repository) error) error {
	return fn(m.repo)
}
