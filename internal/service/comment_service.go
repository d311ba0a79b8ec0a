package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// CommentService manages ticket conversation threads. Visibility follows the
// ticket: anyone who can read a ticket can read and add comments.
type CommentService struct {
	store   repository.Store
	tickets *TicketService
}

// NewCommentService constructs the service.
func NewCommentService(store repository.Store, tickets *TicketService) *CommentService {
	return &CommentService{store: store, tickets: tickets}
}

// Add appends a comment to the thread of a ticket the actor can read.
func (s *CommentService) Add(ctx context.Context, actor *domain.User, ticketID, message string) (*domain.Comment, error) {
	if _, err := s.tickets.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID: ticketID,
		AuthorID: actor.ID,
		Message:  message,
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// List returns the thread of a ticket the actor can read, oldest first,
// system transition notes included.
func (s *CommentService) List(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Comment, error) {
	if _, err := s.tickets.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.store.Comments().ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}
