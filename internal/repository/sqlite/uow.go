package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/repository"
)

// compile-time check that *UnitOfWork implements repository.UnitOfWork
var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork scopes one transaction around one Repository. It is a
// factory value: safe to share between requests, each Do call begins its
// own transaction. Construct it once at startup from the DB handle and
// inject it into the services.
type UnitOfWork struct {
	conn *sql.DB
}

// NewUnitOfWork returns a Unit-of-Work factory bound to db.
func NewUnitOfWork(db *DB) *UnitOfWork {
	return &UnitOfWork{conn: db.conn}
}

// Do begins a transaction, hands fn a Repository bound to it, and then:
//   - commits if fn returns nil
//   - rolls back if fn returns an error (the error is returned as-is)
//   - rolls back and rethrows if fn panics
//
// The delete-then-reinsert sequence of UpdateTierList relies on this:
// a failure anywhere in the scope undoes every write of the scope, so a
// partially replaced tier list is never observable outside it.
func (u *UnitOfWork) Do(ctx context.Context, fn func(repository.Repository) error) (err error) {
	tx, err := u.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = constraintErr(cerr, "sqlite: committing transaction")
		}
	}()

	err = fn(&txRepo{tx: tx})
	return err
}

// compile-time check that *txRepo implements repository.Repository
var _ repository.Repository = (*txRepo)(nil)

// txRepo is the transaction-bound Repository handed to Do callbacks.
// It lives exactly as long as its transaction and must not be retained.
// Its methods are spread over user.go, element.go and tierlist.go.
type txRepo struct {
	tx *sql.Tx
}

// constraintErr translates SQLite constraint failures into the
// application taxonomy. The driver reports them as plain errors whose
// message names the violated constraint, e.g.
//
//	constraint failed: UNIQUE constraint failed: users.login (2067)
//
// Anything that isn't a constraint breach is wrapped with msg unchanged.
func constraintErr(err error, msg string) error {
	switch {
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", msg, apperror.Conflict("unique constraint violated: "+err.Error()))
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%s: %w", msg, apperror.Conflict("foreign key constraint violated"))
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
