// Package repository declares the persistence contracts of the service.
//
// Repository is the set of storage operations over the domain model.
// None of them commit on their own: every method runs inside the
// transaction of the Unit-of-Work scope that produced the Repository.
//
// NOT-FOUND CONVENTIONS (deliberately asymmetric):
//   - GetUser / GetUserByLogin return (nil, nil) when no row matches —
//     an absent user is an ordinary outcome, not an error.
//   - GetElement returns apperror.ErrNotFound when no row matches —
//     callers resolve element references that are expected to exist,
//     and a dangling reference must surface loudly.
package repository

import (
	"context"

	"github.com/sakif/tierlist/internal/model"
)

type Repository interface {
	// AddUser inserts a user row. A duplicate login surfaces as
	// apperror.ErrConflict and rolls back the enclosing scope.
	AddUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	GetElements(ctx context.Context) ([]model.Element, error)
	AddElement(ctx context.Context, element *model.Element) error
	GetElement(ctx context.Context, id string) (*model.Element, error)

	// GetUserTierLists returns every tier list owned by the user, each
	// with its categories and element-id sequences in stored order.
	// In practice a user has exactly one, but the contract is a slice.
	GetUserTierLists(ctx context.Context, userID string) ([]model.TierList, error)

	// CreateTierList inserts the tier list and its full category/link
	// tree. Fresh storage identities are generated for the tier list and
	// every category; tierList.ID is overwritten with the generated id.
	CreateTierList(ctx context.Context, tierList *model.TierList) error

	// UpdateTierList fully replaces the stored tier list identified by
	// tierListID with the given content: all existing category and link
	// rows are deleted and the incoming tree is reinserted under fresh
	// category identities. No merging, no diffing. Atomicity is the
	// enclosing Unit-of-Work's job — callers must run this inside one
	// scope together with any reads it depends on.
	UpdateTierList(ctx context.Context, tierListID string, tierList *model.TierList) error
}

// UnitOfWork is a scoped transaction boundary. Do begins a transaction,
// passes fn exactly one Repository bound to it, commits when fn returns
// nil and rolls back when fn returns an error or panics. The underlying
// connection is released on every exit path.
//
// One Repository belongs to one transaction; never share it across
// goroutines or retain it after Do returns.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repository) error) error
}
