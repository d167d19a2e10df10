package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/model"
)

// AddElement inserts a catalog element.
func (r *txRepo) AddElement(ctx context.Context, element *model.Element) error {
	_, err := r.tx.ExecContext(ctx,
		`INSERT INTO elements (id, name, calories)
		 VALUES (?, ?, ?)`,
		element.ID,
		element.Name,
		element.Calories,
	)
	if err != nil {
		return constraintErr(err, fmt.Sprintf("sqlite: inserting element %s", element.ID))
	}
	return nil
}

// GetElements returns the whole catalog. Ordered by id purely so
// repeated calls enumerate in a stable order.
func (r *txRepo) GetElements(ctx context.Context) ([]model.Element, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, name, calories FROM elements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing elements: %w", err)
	}
	defer rows.Close()

	elements := make([]model.Element, 0)
	for rows.Next() {
		var e model.Element
		if err := rows.Scan(&e.ID, &e.Name, &e.Calories); err != nil {
			return nil, fmt.Errorf("sqlite: scanning element row: %w", err)
		}
		elements = append(elements, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating elements: %w", err)
	}

	return elements, nil
}

// GetElement retrieves a catalog element by id.
//
// Unlike the user lookups this FAILS with apperror.ErrNotFound when the
// element is absent: callers resolve references that are supposed to
// exist, and a dangling element id inside a category must not be
// silently skipped.
func (r *txRepo) GetElement(ctx context.Context, id string) (*model.Element, error) {
	var e model.Element

	err := r.tx.QueryRowContext(ctx,
		`SELECT id, name, calories FROM elements WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Name, &e.Calories)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("element", id)
		}
		return nil, fmt.Errorf("sqlite: getting element %s: %w", id, err)
	}

	return &e, nil
}
