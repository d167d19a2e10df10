// Package service contains the business logic between the HTTP handlers
// and the persistence layer.
//
// Every operation opens exactly one Unit-of-Work scope: the handler
// calls a service method, the method runs its reads and writes against
// the one Repository bound to that scope, and the scope commits or
// rolls back as a whole. Handlers never see a Repository, services
// never see HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sakif/tierlist/internal/apperror"
	"github.com/sakif/tierlist/internal/auth"
	"github.com/sakif/tierlist/internal/model"
	"github.com/sakif/tierlist/internal/repository"
)

// AuthService handles registration, login, and token authentication.
type AuthService struct {
	uow       repository.UnitOfWork
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// compile-time check that *AuthService satisfies the middleware's needs
var _ auth.Authenticator = (*AuthService)(nil)

func NewAuthService(
	uow repository.UnitOfWork,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		uow:       uow,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Tokens bundles the credentials issued to a client.
type Tokens struct {
	AccessToken string `json:"access_token"`
}

// Register creates a new account together with its (empty) tier list and
// returns an access token for it.
//
// User and tier list are created in ONE Unit-of-Work scope: an account
// without a tier list can never be observed. The duplicate-login
// pre-check runs inside the same scope so the friendly Conflict error is
// consistent with what it read; a race between two registrations still
// falls through to the UNIQUE constraint, which also surfaces as
// Conflict — just with the storage engine's wording.
func (s *AuthService) Register(ctx context.Context, login, password string) (*Tokens, error) {
	if login == "" {
		return nil, apperror.ValidationFailed("login", "login is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hash,
	}

	err = s.uow.Do(ctx, func(r repository.Repository) error {
		existing, err := r.GetUserByLogin(ctx, login)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Conflict("login is already taken")
		}

		if err := r.AddUser(ctx, user); err != nil {
			return err
		}

		return r.CreateTierList(ctx, &model.TierList{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			Name:       "",
			Categories: []model.Category{},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: registering %q: %w", login, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("login", login),
	)

	return s.issueTokens(user.ID)
}

// Login verifies credentials and returns a fresh access token. A missing
// user and a wrong password produce the same Unauthorized error, so a
// caller cannot probe which logins exist.
func (s *AuthService) Login(ctx context.Context, login, password string) (*Tokens, error) {
	var user *model.User
	err := s.uow.Do(ctx, func(r repository.Repository) error {
		var err error
		user, err = r.GetUserByLogin(ctx, login)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: logging in %q: %w", login, err)
	}

	if user == nil {
		return nil, apperror.Unauthorized("incorrect login or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("incorrect login or password")
	}

	return s.issueTokens(user.ID)
}

// Authenticate resolves an access token to a user id. Beyond the
// signature check it verifies the user still exists, so a token for a
// vanished account stops working immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return "", apperror.Unauthorized("invalid access token")
	}

	var user *model.User
	err = s.uow.Do(ctx, func(r repository.Repository) error {
		var err error
		user, err = r.GetUser(ctx, userID)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("service/auth: authenticating %s: %w", userID, err)
	}
	if user == nil {
		return "", apperror.Unauthorized("unknown user")
	}

	return user.ID, nil
}

func (s *AuthService) issueTokens(userID string) (*Tokens, error) {
	access, err := s.tokens.Generate(userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", userID, err)
	}
	return &Tokens{AccessToken: access}, nil
}
