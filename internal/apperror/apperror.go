// Package apperror defines the application's error taxonomy.
//
// Three outcomes matter to callers of the persistence layer:
//   - NotFound: a required entity is absent (element lookups only)
//   - Conflict: the storage engine rejected a write — uniqueness or
//     foreign-key breach, surfaced when the statement executes inside
//     the transaction
//   - absent results (user/tier-list lookups) are NOT errors — those
//     operations return a nil value instead
//
// Handlers map these to HTTP status codes with errors.Is; see
// internal/handler/response.go.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel from the list above
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a storage constraint violation (duplicate login,
// dangling foreign key). The enclosing Unit-of-Work rolls back, so no
// partial write is visible after one of these.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized returns an AppError for failed authentication (bad
// credentials, invalid token). HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
