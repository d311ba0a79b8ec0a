package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	category.ID = newID()
	category.CreatedAt = now()
	category.UpdatedAt = category.CreatedAt
	r.s.data.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) Update(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.categories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = category.Name
	stored.Description = category.Description
	stored.UpdatedAt = now()
	r.s.data.categories[category.ID] = stored
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.categories, id)
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, category := range r.s.data.categories {
		if category.Name == name {
			stored := category
			return &stored, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Category, 0, len(r.s.data.categories))
	for _, category := range r.s.data.categories {
		result = append(result, category)
	}
	sortCategories(result)
	return result, nil
}

func (r *categoryRepo) ListWithTicketCounts(_ context.Context) ([]domain.CategoryWithCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[string]int)
	for _, ticket := range r.s.data.tickets {
		counts[ticket.CategoryID]++
	}
	result := make([]domain.CategoryWithCount, 0, len(r.s.data.categories))
	for _, category := range r.s.data.categories {
		result = append(result, domain.CategoryWithCount{
			Category:    category,
			TicketCount: counts[category.ID],
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func sortCategories(list []domain.Category) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

type commentRepo struct {
	s *Store
}

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = newID()
	comment.CreatedAt = now()
	r.s.data.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Comment
	for _, comment := range r.s.data.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *commentRepo) DeleteByAuthor(_ context.Context, authorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, comment := range r.s.data.comments {
		if comment.AuthorID == authorID {
			delete(r.s.data.comments, id)
		}
	}
	return nil
}

type attachmentRepo struct {
	s *Store
}

func (r *attachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	attachment.ID = newID()
	attachment.UploadedAt = now()
	r.s.data.attachments[attachment.ID] = *attachment
	return nil
}

func (r *attachmentRepo) ListByAttachable(_ context.Context, attachableType domain.AttachableType, attachableID string) ([]domain.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Attachment
	for _, attachment := range r.s.data.attachments {
		if attachment.AttachableType == attachableType && attachment.AttachableID == attachableID {
			result = append(result, attachment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.Before(result[j].UploadedAt)
	})
	return result, nil
}

func (r *attachmentRepo) DeleteByAttachable(_ context.Context, attachableType domain.AttachableType, attachableID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, attachment := range r.s.data.attachments {
		if attachment.AttachableType == attachableType && attachment.AttachableID == attachableID {
			delete(r.s.data.attachments, id)
		}
	}
	return nil
}

type articleRepo struct {
	s *Store
}

func (r *articleRepo) Create(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	article.ID = newID()
	article.CreatedAt = now()
	article.UpdatedAt = article.CreatedAt
	r.s.data.articles[article.ID] = *article
	return nil
}

func (r *articleRepo) Update(_ context.Context, article *domain.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = article.Title
	stored.Content = article.Content
	stored.CategoryID = article.CategoryID
	stored.UpdatedAt = now()
	r.s.data.articles[article.ID] = stored
	return nil
}

func (r *articleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.articles, id)
	return nil
}

func (r *articleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *articleRepo) List(_ context.Context) ([]domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(domain.Article) bool { return true }), nil
}

func (r *articleRepo) ListByAuthor(_ context.Context, authorID string) ([]domain.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(a domain.Article) bool { return a.AuthorID == authorID }), nil
}

func (r *articleRepo) DeleteByAuthor(_ context.Context, authorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, article := range r.s.data.articles {
		if article.AuthorID == authorID {
			delete(r.s.data.articles, id)
		}
	}
	return nil
}

func (r *articleRepo) collect(keep func(domain.Article) bool) []domain.Article {
	var result []domain.Article
	for _, article := range r.s.data.articles {
		if keep(article) {
			result = append(result, article)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

type auditLogRepo struct {
	s *Store
}

func (r *auditLogRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = newID()
	entry.CreatedAt = now()
	r.s.data.auditLogs = append(r.s.data.auditLogs, *entry)
	return nil
}

func (r *auditLogRepo) ListByEntity(_ context.Context, entityType domain.EntityType, entityID string) ([]domain.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.AuditLog
	for _, entry := range r.s.data.auditLogs {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}
