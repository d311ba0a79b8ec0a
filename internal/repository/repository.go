// Package repository defines the persistence boundary of the service. Two
// implementations exist: a Postgres store built on pgx (repository/postgres)
// and an in-memory store (repository/memory) used when no database is
// configured and by tests.
package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrNotFound is returned when a record does not exist within the scope a
// lookup was given. Owner-scoped lookups deliberately return it for rows
// that exist but belong to someone else.
var ErrNotFound = errors.New("record not found")

// Store aggregates the per-entity repositories and provides the transaction
// boundary. InTx runs fn against a store whose writes commit together or not
// at all; the lifecycle engine relies on this to keep a mutation and its
// audit entry atomic.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Tickets() TicketRepository
	Comments() CommentRepository
	Attachments() AttachmentRepository
	Articles() ArticleRepository
	AuditLogs() AuditLogRepository

	InTx(ctx context.Context, fn func(Store) error) error
}

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OwnerID    *string
	CategoryID *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
//
// UpdateAssignment is the conditional write behind claim/release: the update
// applies only when the stored agent still matches expectedAgent (nil meaning
// unclaimed), and reports whether a row changed. Status is written in the
// same statement so the two fields can never diverge.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error
	UpdateAssignment(ctx context.Context, ticketID string, expectedAgent, newAgent *string, status domain.TicketStatus) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error)
	CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error)
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// CategoryRepository defines persistence access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	ListWithTicketCounts(ctx context.Context) ([]domain.CategoryWithCount, error)
}

// CommentRepository manages ticket thread comments. Comment rows are removed
// only through the ticket cascade or the admin account cascade.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	DeleteByAuthor(ctx context.Context, authorID string) error
}

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByAttachable(ctx context.Context, attachableType domain.AttachableType, attachableID string) ([]domain.Attachment, error)
	DeleteByAttachable(ctx context.Context, attachableType domain.AttachableType, attachableID string) error
}

// ArticleRepository persists knowledge base entries.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Article, error)
	DeleteByAuthor(ctx context.Context, authorID string) error
}

// AuditLogRepository is append-only: entries are never updated or deleted.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.AuditLog, error)
}
