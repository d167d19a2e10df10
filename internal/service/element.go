package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/repository"
)

const maxElementNameLength = 200

// ElementService manages the shared element catalog.
type ElementService struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewElementService(uow repository.UnitOfWork, logger *slog.Logger) *ElementService {
	return &ElementService{uow: uow, logger: logger}
}

// List returns the whole catalog.
func (s *ElementService) List(ctx context.Context) ([]model.Element, error) {
	var elements []model.Element
	err := s.uow.Do(ctx, func(r repository.Repository) error {
		var err error
		elements, err = r.GetElements(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service/element: listing: %w", err)
	}
	return elements, nil
}

// Create adds a catalog element. Elements are global and immutable once
// created — there is no update or delete.
func (s *ElementService) Create(ctx context.Context, name string, calories int) (*model.Element, error) {
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > maxElementNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or fewer", maxElementNameLength))
	}
	if calories < 0 {
		return nil, apperror.ValidationFailed("calories", "calories must not be negative")
	}

	element := &model.Element{
		ID:       uuid.NewString(),
		Name:     name,
		Calories: calories,
	}

	err := s.uow.Do(ctx, func(r repository.Repository) error {
		return r.AddElement(ctx, element)
	})
	if err != nil {
		return nil, fmt.Errorf("service/element: creating %q: %w", name, err)
	}

	s.logger.Info("element created",
		slog.String("elementID", element.ID),
		slog.String("name", name),
	)

	return element, nil
}
