// Package model defines the domain entities of the tier-list service.
package model

// User is a registered account. Users are created at registration and
// never mutated or deleted afterwards; Login is unique across all users
// (enforced by the storage schema, not pre-checked here).
type User struct {
	ID           string `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"-"` // never serialized
}
