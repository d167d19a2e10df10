package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Authenticator resolves a bearer token to a user id. The concrete
// implementation (service.AuthService) verifies the signature AND that
// the user still exists, so a token for a deleted account is rejected.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// contextKey is unexported so only this package can read or write the
// userID value in a request context — plain string keys would let any
// package shadow it.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth guards a route group: it reads the Authorization: Bearer
// header, authenticates it, and stores the userID in the request
// context. Missing or invalid credentials end the chain with 403, the
// same way the service treated unauthenticated tier-list access before.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				forbidden(w)
				return
			}

			userID, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				forbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id set by
// RequireAuth. Returns ("", false) on an unauthenticated request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errors.New("auth: missing bearer token")
	}
	return token, nil
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden","message":"valid authentication required"}`))
}
