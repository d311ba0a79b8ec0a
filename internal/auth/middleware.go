package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller together with the token that
// authenticated them; the token ID is needed for logout.
type Principal struct {
	User    *domain.User
	TokenID string
	Expires int64
}

// Middleware validates bearer tokens, rejects revoked ones and loads the
// caller's account.
type Middleware struct {
	tokens  *TokenManager
	revoker *Revoker
	store   repository.Store
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, revoker *Revoker, store repository.Store) *Middleware {
	return &Middleware{tokens: tokens, revoker: revoker, store: store}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	revoked, err := m.revoker.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("token revoked")
	}

	user, err := m.store.Users().GetByID(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{
		User:    user,
		TokenID: claims.ID,
		Expires: claims.ExpiresAt.Unix(),
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
