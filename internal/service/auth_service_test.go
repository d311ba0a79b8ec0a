package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/audit"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository/memory"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newAuthService(store *memory.Store) *AuthService {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	revoker := auth.NewRevoker(nil)
	return NewAuthService(store, audit.NewRecorder(), tokens, revoker, 4)
}

func TestRegisterIssuesTokenAndAudits(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{
		Name:     "Nora New",
		Email:    "nora@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, domain.RoleUser, session.User.Role)

	entries, err := store.AuditLogs().ListByEntity(ctx, domain.EntityUser, session.User.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditUserRegistered, entries[0].Action)
	assert.Equal(t, "New user registered: 'Nora New' (nora@example.com)", entries[0].Description)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "dup@example.com", Password: "password2"})
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestLogin(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Lena", Email: "lena@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	session, err := svc.Login(ctx, "lena@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	entries, err := store.AuditLogs().ListByEntity(ctx, domain.EntityUser, session.User.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2) // registered, logged in
	assert.Equal(t, domain.AuditUserLoggedIn, entries[1].Action)
	assert.Equal(t, "User 'Lena' logged in.", entries[1].Description)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Lena", Email: "lena@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Wrong password and unknown email look identical to the caller.
	_, badPassword := svc.Login(ctx, "lena@example.com", "wrong")
	assert.True(t, apperrors.IsCode(badPassword, "UNAUTHORIZED"))

	_, badEmail := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.True(t, apperrors.IsCode(badEmail, "UNAUTHORIZED"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	user := &domain.User{ID: "u-1", Role: domain.RoleStaff}

	raw, expiresAt, err := tokens.GenerateToken(user)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tokens.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.NotEmpty(t, claims.ID)

	other := auth.NewTokenManager("different-secret", time.Hour)
	_, err = other.ParseToken(raw)
	assert.Error(t, err)
}
