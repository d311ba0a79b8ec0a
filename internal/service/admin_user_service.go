package service

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AdminUserService is the admin-only account management surface.
type AdminUserService struct {
	store repository.Store
}

// NewAdminUserService constructs the service.
func NewAdminUserService(store repository.Store) *AdminUserService {
	return &AdminUserService{store: store}
}

// AdminUserUpdateInput describes an account edit.
type AdminUserUpdateInput struct {
	Name  string
	Email string
	Role  string
}

// UserListing pairs the accounts with per-role totals.
type UserListing struct {
	Users      []domain.User
	RoleCounts map[domain.Role]int
}

// List returns every account with role totals.
func (s *AdminUserService) List(ctx context.Context, actor *domain.User) (*UserListing, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	counts := make(map[domain.Role]int)
	for _, user := range users {
		counts[user.Role]++
	}
	return &UserListing{Users: users, RoleCounts: counts}, nil
}

// Get returns one account.
func (s *AdminUserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update edits an account's name, email and role.
func (s *AdminUserService) Update(ctx context.Context, actor *domain.User, id string, input AdminUserUpdateInput) (*domain.User, error) {
	if !authz.CanManageUsers(actor) {
		return nil, apperrors.NewForbidden("admin role required")
	}

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if existing, err := s.store.Users().GetByEmail(ctx, input.Email); err == nil {
		if existing.ID != id {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Role = role
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account. Admins cannot remove themselves. The account's
// owned tickets cascade away, held tickets revert to unclaimed, and its
// comments and articles are cleaned up in the same transaction.
func (s *AdminUserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !authz.CanManageUsers(actor) {
		return apperrors.NewForbidden("admin role required")
	}
	if actor.ID == id {
		return apperrors.NewConflict("cannot delete your own account", map[string]any{"id": id})
	}

	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		// Article rows go away with DeleteByAuthor, but their attachment
		// records do not cascade; collect the articles first and clear them.
		articles, err := tx.Articles().ListByAuthor(ctx, id)
		if err != nil {
			return err
		}
		for i := range articles {
			if err := tx.Attachments().DeleteByAttachable(ctx, domain.AttachableArticle, articles[i].ID); err != nil {
				return err
			}
		}
		if err := tx.Comments().DeleteByAuthor(ctx, id); err != nil {
			return err
		}
		if err := tx.Articles().DeleteByAuthor(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
