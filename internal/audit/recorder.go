// Package audit renders and appends audit log entries. The recorder is
// called synchronously from the services, inside the same transaction as the
// mutation it describes, so an audit row exists if and only if its operation
// committed.
package audit

import (
	"context"
	"fmt"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Recorder writes audit entries through whatever store it is handed, which
// inside a transaction is the transactional store.
type Recorder struct{}

// NewRecorder builds a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(ctx context.Context, store repository.Store, entry *domain.AuditLog) error {
	return store.AuditLogs().Create(ctx, entry)
}

// TicketCreated records a new ticket.
func (r *Recorder) TicketCreated(ctx context.Context, store repository.Store, actor *domain.User, ticket *domain.Ticket) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &actor.ID,
		Action:      domain.AuditTicketCreated,
		Description: fmt.Sprintf("User created a new ticket: '%s'", ticket.Title),
		EntityType:  domain.EntityTicket,
		EntityID:    ticket.ID,
	})
}

// TicketAssigned records a staff member claiming a ticket.
func (r *Recorder) TicketAssigned(ctx context.Context, store repository.Store, actor *domain.User, ticket *domain.Ticket) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &actor.ID,
		Action:      domain.AuditTicketAssigned,
		Description: fmt.Sprintf("Staff '%s' assigned Ticket #%s to themselves.", actor.Name, ticket.ID),
		EntityType:  domain.EntityTicket,
		EntityID:    ticket.ID,
	})
}

// TicketUnassigned records a staff member releasing a ticket.
func (r *Recorder) TicketUnassigned(ctx context.Context, store repository.Store, actor *domain.User, ticket *domain.Ticket) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &actor.ID,
		Action:      domain.AuditTicketUnassigned,
		Description: fmt.Sprintf("Staff '%s' unassigned Ticket #%s from themselves.", actor.Name, ticket.ID),
		EntityType:  domain.EntityTicket,
		EntityID:    ticket.ID,
	})
}

// StatusUpdated records a status change together with its old and new values.
func (r *Recorder) StatusUpdated(ctx context.Context, store repository.Store, actor *domain.User, ticket *domain.Ticket, oldStatus, newStatus domain.TicketStatus) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &actor.ID,
		Action:      domain.AuditStatusUpdated,
		Description: fmt.Sprintf("Staff '%s' changed Ticket #%s status from '%s' to '%s'.", actor.Name, ticket.ID, oldStatus, newStatus),
		EntityType:  domain.EntityTicket,
		EntityID:    ticket.ID,
	})
}

// TicketDeleted records a deletion. The description embeds the title because
// the ticket row is gone once the transaction commits.
func (r *Recorder) TicketDeleted(ctx context.Context, store repository.Store, actor *domain.User, ticket *domain.Ticket) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &actor.ID,
		Action:      domain.AuditTicketDeleted,
		Description: fmt.Sprintf("User '%s' deleted Ticket #%s ('%s').", actor.Name, ticket.ID, ticket.Title),
		EntityType:  domain.EntityTicket,
		EntityID:    ticket.ID,
	})
}

// UserRegistered records a new account.
func (r *Recorder) UserRegistered(ctx context.Context, store repository.Store, user *domain.User) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &user.ID,
		Action:      domain.AuditUserRegistered,
		Description: fmt.Sprintf("New user registered: '%s' (%s)", user.Name, user.Email),
		EntityType:  domain.EntityUser,
		EntityID:    user.ID,
	})
}

// UserLoggedIn records a successful login.
func (r *Recorder) UserLoggedIn(ctx context.Context, store repository.Store, user *domain.User) error {
	return r.record(ctx, store, &domain.AuditLog{
		ActorID:     &user.ID,
		Action:      domain.AuditUserLoggedIn,
		Description: fmt.Sprintf("User '%s' logged in.", user.Name),
		EntityType:  domain.EntityUser,
		EntityID:    user.ID,
	})
}
