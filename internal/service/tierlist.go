package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/repository"
)

// TierListService reads and replaces a user's tier list.
//
// The storage schema allows many tier lists per user, but the service
// fixes the cardinality at one: registration creates exactly one, and
// these operations always address the first of GetUserTierLists.
type TierListService struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewTierListService(uow repository.UnitOfWork, logger *slog.Logger) *TierListService {
	return &TierListService{uow: uow, logger: logger}
}

// TierListView is a tier list with its element references resolved to
// full catalog records, ready for presentation.
type TierListView struct {
	ID         string
	UserID     string
	Name       string
	Categories []CategoryView
}

type CategoryView struct {
	Name     string
	Elements []model.Element
}

// Get returns the user's tier list with every element id resolved
// against the catalog. A dangling reference fails the whole read with
// NotFound — the repository's element lookup is the one that errors on
// absence, precisely for this case.
func (s *TierListService) Get(ctx context.Context, userID string) (*TierListView, error) {
	var view *TierListView
	err := s.uow.Do(ctx, func(r repository.Repository) error {
		tierList, err := firstTierList(ctx, r, userID)
		if err != nil {
			return err
		}

		v := &TierListView{
			ID:         tierList.ID,
			UserID:     tierList.UserID,
			Name:       tierList.Name,
			Categories: make([]CategoryView, 0, len(tierList.Categories)),
		}
		for _, cat := range tierList.Categories {
			catView := CategoryView{
				Name:     cat.Name,
				Elements: make([]model.Element, 0, len(cat.ElementIDs)),
			}
			for _, elementID := range cat.ElementIDs {
				element, err := r.GetElement(ctx, elementID)
				if err != nil {
					return fmt.Errorf("resolving category element: %w", err)
				}
				catView.Elements = append(catView.Elements, *element)
			}
			v.Categories = append(v.Categories, catView)
		}

		view = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service/tierlist: getting tier list of user %s: %w", userID, err)
	}

	return view, nil
}

// Update replaces the user's tier list with the given content. Read of
// the current list and the full replace run in one Unit-of-Work scope,
// so the delete-then-reinsert is atomic: concurrent readers see either
// the old tree or the new one, never the gap in between.
func (s *TierListService) Update(ctx context.Context, userID, name string, categories []model.Category) error {
	err := s.uow.Do(ctx, func(r repository.Repository) error {
		current, err := firstTierList(ctx, r, userID)
		if err != nil {
			return err
		}

		return r.UpdateTierList(ctx, current.ID, &model.TierList{
			ID:         current.ID,
			UserID:     current.UserID,
			Name:       name,
			Categories: categories,
		})
	})
	if err != nil {
		return fmt.Errorf("service/tierlist: updating tier list of user %s: %w", userID, err)
	}

	s.logger.Info("tier list replaced",
		slog.String("userID", userID),
		slog.Int("categories", len(categories)),
	)

	return nil
}

// firstTierList returns the user's tier list. Registration guarantees
// one exists; a user without one gets NotFound rather than a panic.
func firstTierList(ctx context.Context, r repository.Repository, userID string) (*model.TierList, error) {
	tierLists, err := r.GetUserTierLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tierLists) == 0 {
		return nil, apperror.NotFound("tier list of user", userID)
	}
	return &tierLists[0], nil
}
