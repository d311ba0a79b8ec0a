package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/audit"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService handles registration, login and logout.
type AuthService struct {
	store      repository.Store
	recorder   *audit.Recorder
	tokens     *auth.TokenManager
	revoker    *auth.Revoker
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(store repository.Store, recorder *audit.Recorder, tokens *auth.TokenManager, revoker *auth.Revoker, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		recorder:   recorder,
		tokens:     tokens,
		revoker:    revoker,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput describes a signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is an issued access token with its user.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates an account with the base user role. Elevated roles are
// only granted by an administrator afterwards.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if _, err := s.store.Users().GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return s.recorder.UserRegistered(ctx, tx, user)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token. Invalid email and invalid
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		return s.recorder.UserLoggedIn(ctx, tx, user)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return s.issue(user)
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
