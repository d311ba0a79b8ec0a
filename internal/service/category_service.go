package service

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// CategoryService manages ticket categories. Mutations are admin-only;
// listing is open to any authenticated caller.
type CategoryService struct {
	store repository.Store
}

// NewCategoryService constructs the service.
func NewCategoryService(store repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

// CategoryInput describes create and update payloads.
type CategoryInput struct {
	Name        string
	Description string
}

// Create adds a category with a unique name.
func (s *CategoryService) Create(ctx context.Context, actor *domain.User, input CategoryInput) (*domain.Category, error) {
	if !authz.CanManageCategories(actor) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if err := s.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: input.Name, Description: input.Description}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Update renames or re-describes a category.
func (s *CategoryService) Update(ctx context.Context, actor *domain.User, id string, input CategoryInput) (*domain.Category, error) {
	if !authz.CanManageCategories(actor) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	category, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.ensureNameFree(ctx, input.Name, id); err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Description = input.Description
	if err := s.store.Categories().Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category that has no tickets filed under it.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !authz.CanManageCategories(actor) {
		return apperrors.NewForbidden("admin role required")
	}
	if _, err := s.store.Categories().GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	count, err := s.store.Tickets().CountByCategory(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("category still has tickets", map[string]any{"id": id, "ticket_count": count})
	}

	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// ListWithCounts returns categories with their ticket counts. Staff only.
func (s *CategoryService) ListWithCounts(ctx context.Context, actor *domain.User) ([]domain.CategoryWithCount, error) {
	if !authz.IsStaff(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	categories, err := s.store.Categories().ListWithTicketCounts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.store.Categories().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if existing.ID != selfID {
		return apperrors.NewConflict("category name already in use", map[string]any{"name": name})
	}
	return nil
}
