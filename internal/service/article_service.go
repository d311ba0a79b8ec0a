package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ArticleService manages the knowledge base. Articles are readable by every
// authenticated caller and written by staff.
type ArticleService struct {
	store  repository.Store
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewArticleService constructs the service.
func NewArticleService(store repository.Store, blobs storage.BlobStore, logger *zap.Logger) *ArticleService {
	return &ArticleService{store: store, blobs: blobs, logger: logger}
}

// ArticleInput describes create and update payloads.
type ArticleInput struct {
	Title      string
	Content    string
	CategoryID string
}

// Create publishes a new article authored by the actor.
func (s *ArticleService) Create(ctx context.Context, actor *domain.User, input ArticleInput) (*domain.Article, error) {
	if !authz.CanAuthorArticles(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if _, err := s.store.Categories().GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	article := &domain.Article{
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		AuthorID:   actor.ID,
	}
	if err := s.store.Articles().Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// Update edits an article. Any staff member may edit any article.
func (s *ArticleService) Update(ctx context.Context, actor *domain.User, id string, input ArticleInput) (*domain.Article, error) {
	if !authz.CanAuthorArticles(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	article, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Categories().GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	article.Title = input.Title
	article.Content = input.Content
	article.CategoryID = input.CategoryID
	if err := s.store.Articles().Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// Delete removes an article together with its attachment rows and files.
func (s *ArticleService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !authz.CanAuthorArticles(actor) {
		return apperrors.NewForbidden("staff role required")
	}
	article, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	attachments, err := s.store.Attachments().ListByAttachable(ctx, domain.AttachableArticle, article.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, attachment := range attachments {
		if err := s.blobs.Delete(attachment.FilePath); err != nil {
			s.logger.Warn("failed to delete attachment blob",
				zap.String("article_id", article.ID),
				zap.String("path", attachment.FilePath),
				zap.Error(err),
			)
		}
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Attachments().DeleteByAttachable(ctx, domain.AttachableArticle, article.ID); err != nil {
			return err
		}
		return tx.Articles().Delete(ctx, article.ID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Get returns one article.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	return s.get(ctx, id)
}

// List returns all articles, newest first.
func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.store.Articles().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

func (s *ArticleService) get(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.store.Articles().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
