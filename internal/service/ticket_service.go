package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/audit"
	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle: creation, field updates,
// the claim/release toggle, status changes and deletion. Every mutation and
// its audit entry are written in one transaction; notification events are
// published only after the transaction commits.
type TicketService struct {
	store      repository.Store
	recorder   *audit.Recorder
	dispatcher *events.Dispatcher
	blobs      storage.BlobStore
	logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(store repository.Store, recorder *audit.Recorder, dispatcher *events.Dispatcher, blobs storage.BlobStore, logger *zap.Logger) *TicketService {
	return &TicketService{
		store:      store,
		recorder:   recorder,
		dispatcher: dispatcher,
		blobs:      blobs,
		logger:     logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
	SLAHours    *int
}

// TicketUpdateInput describes the owner-editable fields.
type TicketUpdateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
}

// TicketListFilter describes listing parameters. Staff callers may use every
// field; plain users are always scoped to their own tickets.
type TicketListFilter struct {
	CategoryID *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// TicketDetail bundles a ticket with its conversation thread and files.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Comments    []domain.Comment
	Attachments []domain.Attachment
}

// Create opens a new ticket owned by the actor.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if _, err := s.store.Categories().GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		OwnerID:     actor.ID,
		CategoryID:  input.CategoryID,
		SLAHours:    input.SLAHours,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Tickets().Create(ctx, ticket); err != nil {
			return err
		}
		return s.recorder.TicketCreated(ctx, tx, actor, ticket)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.TicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  map[string]string{"title": ticket.Title},
	})
	return ticket, nil
}

// Get returns a ticket with its comments and attachments. Plain users only
// see their own tickets; a foreign ticket reads as not found rather than
// forbidden so its existence is not leaked.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*TicketDetail, error) {
	ticket, err := s.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.Comments().ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attachments, err := s.store.Attachments().ListByAttachable(ctx, domain.AttachableTicket, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketDetail{Ticket: ticket, Comments: comments, Attachments: attachments}, nil
}

// List returns tickets matching the filter. Staff see every ticket; plain
// users see only their own.
func (s *TicketService) List(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CategoryID: filter.CategoryID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if !authz.IsStaff(actor) {
		owner := actor.ID
		repoFilter.OwnerID = &owner
	}

	tickets, err := s.store.Tickets().List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Update edits the owner-editable fields. Only the creator may update a
// ticket; staff manage tickets through assignment and status instead.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdateTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("only the ticket creator can update it")
	}
	if _, err := s.store.Categories().GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket.Title = input.Title
	ticket.Description = input.Description
	ticket.Priority = input.Priority
	ticket.CategoryID = input.CategoryID
	if err := s.store.Tickets().Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// AssignToggle claims an unclaimed ticket for the actor, or releases a
// ticket the actor already holds. Claiming moves an open ticket to
// in_progress and releasing moves an in_progress ticket back to open; a
// resolved or closed ticket changes hands without changing status. A ticket
// held by someone else is a conflict. The assignment write is conditional on
// the currently stored agent, so two concurrent claims resolve to exactly
// one winner.
func (s *TicketService) AssignToggle(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if !authz.CanAssign(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}

	ticket, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	var (
		claiming  bool
		eventType events.EventType
	)
	switch {
	case ticket.Unclaimed():
		claiming = true
		eventType = events.TicketAssigned
	case ticket.HeldBy(actor.ID):
		claiming = false
		eventType = events.TicketUnassigned
	default:
		return nil, apperrors.NewConflict("ticket is assigned to another staff member", map[string]any{"id": ticketID})
	}

	// Assignment only drags the status along the open<->in_progress edge.
	// A resolved or closed ticket keeps its status when claimed or released.
	targetStatus := ticket.Status
	if claiming && ticket.Status == domain.TicketStatusOpen {
		targetStatus = domain.TicketStatusInProgress
	}
	if !claiming && ticket.Status == domain.TicketStatusInProgress {
		targetStatus = domain.TicketStatusOpen
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		var expected, next *string
		if claiming {
			next = &actor.ID
		} else {
			expected = &actor.ID
		}

		updated, err := tx.Tickets().UpdateAssignment(ctx, ticketID, expected, next, targetStatus)
		if err != nil {
			return err
		}
		if !updated {
			if _, err := tx.Tickets().GetByID(ctx, ticketID); errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
			}
			return apperrors.NewConflict("ticket assignment changed concurrently", map[string]any{"id": ticketID})
		}

		if claiming {
			return s.recorder.TicketAssigned(ctx, tx, actor, ticket)
		}
		return s.recorder.TicketUnassigned(ctx, tx, actor, ticket)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if claiming {
		ticket.AgentID = &actor.ID
	} else {
		ticket.AgentID = nil
	}
	ticket.Status = targetStatus

	s.publish(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
	})
	return ticket, nil
}

// ChangeStatus moves a ticket to a new lifecycle status, writing a system
// comment into the thread and an audit entry in the same transaction. Setting
// the current status again is a no-op that records nothing.
func (s *TicketService) ChangeStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !authz.CanChangeStatus(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}

	ticket, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	if oldStatus == newStatus {
		return ticket, nil
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Tickets().UpdateStatus(ctx, ticketID, newStatus); err != nil {
			return err
		}
		comment := &domain.Comment{
			TicketID: ticketID,
			AuthorID: actor.ID,
			Message:  fmt.Sprintf("changed status from '%s' to '%s'", oldStatus, newStatus),
			IsLog:    true,
		}
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return err
		}
		return s.recorder.StatusUpdated(ctx, tx, actor, ticket, oldStatus, newStatus)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket.Status = newStatus
	s.publish(ctx, events.Event{
		Type:     events.TicketStatusUpdated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  map[string]string{"from": string(oldStatus), "to": string(newStatus)},
	})
	return ticket, nil
}

// Delete removes a ticket, its comments, its attachment rows and their
// stored files. Only the creator may delete. Blob deletion happens before
// the transaction and failures there are logged and skipped: a leaked file
// is recoverable, a committed delete is not.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, ticketID string) error {
	ticket, err := s.visibleTicket(ctx, actor, ticketID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteTicket(actor, ticket) {
		return apperrors.NewForbidden("only the ticket creator can delete it")
	}

	attachments, err := s.store.Attachments().ListByAttachable(ctx, domain.AttachableTicket, ticket.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, attachment := range attachments {
		if err := s.blobs.Delete(attachment.FilePath); err != nil {
			s.logger.Warn("failed to delete attachment blob",
				zap.String("ticket_id", ticket.ID),
				zap.String("path", attachment.FilePath),
				zap.Error(err),
			)
		}
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		// The audit entry goes first so the description can keep the title
		// of the row being removed.
		if err := s.recorder.TicketDeleted(ctx, tx, actor, ticket); err != nil {
			return err
		}
		if err := tx.Attachments().DeleteByAttachable(ctx, domain.AttachableTicket, ticket.ID); err != nil {
			return err
		}
		return tx.Tickets().Delete(ctx, ticket.ID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.TicketDeleted,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  map[string]string{"title": ticket.Title},
	})
	return nil
}

// History returns the audit trail of a ticket. Staff only.
func (s *TicketService) History(ctx context.Context, actor *domain.User, ticketID string) ([]domain.AuditLog, error) {
	if !authz.IsStaff(actor) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	entries, err := s.store.AuditLogs().ListByEntity(ctx, domain.EntityTicket, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// visibleTicket loads a ticket through the caller's visibility scope: staff
// see every ticket, plain users only their own.
func (s *TicketService) visibleTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	var (
		ticket *domain.Ticket
		err    error
	)
	if authz.IsStaff(actor) {
		ticket, err = s.store.Tickets().GetByID(ctx, ticketID)
	} else {
		ticket, err = s.store.Tickets().GetByIDForOwner(ctx, ticketID, actor.ID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err),
		)
	}
}
