package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/tierlist/internal/model"
)

// AddUser inserts a user row. The login column carries a UNIQUE
// constraint; a duplicate surfaces as apperror.ErrConflict and the
// enclosing Unit-of-Work rolls back, so no partial row remains visible.
// Callers wanting a friendly duplicate-login error should pre-check with
// GetUserByLogin inside the same scope.
func (r *txRepo) AddUser(ctx context.Context, user *model.User) error {
	_, err := r.tx.ExecContext(ctx,
		`INSERT INTO users (id, login, password_hash)
		 VALUES (?, ?, ?)`,
		user.ID,
		user.Login,
		user.PasswordHash,
	)
	if err != nil {
		return constraintErr(err, fmt.Sprintf("sqlite: inserting user %s", user.ID))
	}
	return nil
}

// GetUser retrieves a user by id. An absent user is not an error:
// the result is (nil, nil).
func (r *txRepo) GetUser(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx,
		`SELECT id, login, password_hash FROM users WHERE id = ?`, id)
}

// GetUserByLogin retrieves a user by login, (nil, nil) when absent.
// Used both by login and by the duplicate-login pre-check at
// registration.
func (r *txRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.getUser(ctx,
		`SELECT id, login, password_hash FROM users WHERE login = ?`, login)
}

func (r *txRepo) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := r.tx.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Login,
		&u.PasswordHash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}
