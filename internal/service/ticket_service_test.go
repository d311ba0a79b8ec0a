package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/audit"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/repository/memory"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type testEnv struct {
	store    *memory.Store
	tickets  *TicketService
	comments *CommentService
	category *domain.Category
	owner    *domain.User
	staff    *domain.User
	staff2   *domain.User
	admin    *domain.User
	stranger *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	dispatcher := events.NewDispatcher()
	ticketService := NewTicketService(store, audit.NewRecorder(), dispatcher, blobs, zap.NewNop())
	commentService := NewCommentService(store, ticketService)

	category := &domain.Category{Name: "Billing", Description: "invoices"}
	require.NoError(t, store.Categories().Create(ctx, category))

	env := &testEnv{
		store:    store,
		tickets:  ticketService,
		comments: commentService,
		category: category,
	}
	env.owner = env.newUser(t, "Olivia Owner", "owner@example.com", domain.RoleUser)
	env.staff = env.newUser(t, "Sam Staff", "sam@example.com", domain.RoleStaff)
	env.staff2 = env.newUser(t, "Sally Staff", "sally@example.com", domain.RoleStaff)
	env.admin = env.newUser(t, "Ada Admin", "ada@example.com", domain.RoleAdmin)
	env.stranger = env.newUser(t, "Bob Bystander", "bob@example.com", domain.RoleUser)
	return env
}

func (e *testEnv) newUser(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) newTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := e.tickets.Create(context.Background(), e.owner, TicketCreateInput{
		Title:       "Printer on fire",
		Description: "It is actually on fire.",
		Priority:    domain.TicketPriorityHigh,
		CategoryID:  e.category.ID,
	})
	require.NoError(t, err)
	return ticket
}

func (e *testEnv) auditEntries(t *testing.T, ticketID string) []domain.AuditLog {
	t.Helper()
	entries, err := e.store.AuditLogs().ListByEntity(context.Background(), domain.EntityTicket, ticketID)
	require.NoError(t, err)
	return entries
}

func TestCreateTicket(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, env.owner.ID, ticket.OwnerID)
	assert.Nil(t, ticket.AgentID)

	entries := env.auditEntries(t, ticket.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditTicketCreated, entries[0].Action)
	assert.Equal(t, "User created a new ticket: 'Printer on fire'", entries[0].Description)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, env.owner.ID, *entries[0].ActorID)
}

func TestCreateTicketUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.tickets.Create(context.Background(), env.owner, TicketCreateInput{
		Title:       "Broken",
		Description: "d",
		Priority:    domain.TicketPriorityLow,
		CategoryID:  "00000000-0000-0000-0000-000000000000",
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestGetTicketVisibility(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	// Owner and staff can read.
	_, err := env.tickets.Get(ctx, env.owner, ticket.ID)
	assert.NoError(t, err)
	_, err = env.tickets.Get(ctx, env.staff, ticket.ID)
	assert.NoError(t, err)

	// A foreign plain user gets not found, not forbidden.
	_, err = env.tickets.Get(ctx, env.stranger, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestListTicketsScoping(t *testing.T) {
	env := newTestEnv(t)
	env.newTicket(t)
	env.newTicket(t)
	ctx := context.Background()

	mine, err := env.tickets.List(ctx, env.owner, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	others, err := env.tickets.List(ctx, env.stranger, TicketListFilter{})
	require.NoError(t, err)
	assert.Empty(t, others)

	all, err := env.tickets.List(ctx, env.staff, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAssignToggleClaimAndRelease(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	claimed, err := env.tickets.AssignToggle(ctx, env.staff, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.AgentID)
	assert.Equal(t, env.staff.ID, *claimed.AgentID)
	assert.Equal(t, domain.TicketStatusInProgress, claimed.Status)

	// A second staff member cannot touch a held ticket.
	_, err = env.tickets.AssignToggle(ctx, env.staff2, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	released, err := env.tickets.AssignToggle(ctx, env.staff, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, released.AgentID)
	assert.Equal(t, domain.TicketStatusOpen, released.Status)

	entries := env.auditEntries(t, ticket.ID)
	require.Len(t, entries, 3) // created, assigned, unassigned
	assert.Equal(t, domain.AuditTicketAssigned, entries[1].Action)
	assert.Equal(t, "Staff 'Sam Staff' assigned Ticket #"+ticket.ID+" to themselves.", entries[1].Description)
	assert.Equal(t, domain.AuditTicketUnassigned, entries[2].Action)
	assert.Equal(t, "Staff 'Sam Staff' unassigned Ticket #"+ticket.ID+" from themselves.", entries[2].Description)
}

func TestAssignToggleKeepsResolvedStatus(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	_, err := env.tickets.ChangeStatus(ctx, env.staff, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	// Claiming a resolved ticket must not reopen it.
	claimed, err := env.tickets.AssignToggle(ctx, env.staff, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, claimed.AgentID)
	assert.Equal(t, domain.TicketStatusResolved, claimed.Status)

	released, err := env.tickets.AssignToggle(ctx, env.staff, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, released.AgentID)
	assert.Equal(t, domain.TicketStatusResolved, released.Status)

	stored, err := env.store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, stored.Status)

	// Only the explicit status change leaves a system comment or an
	// updated_status audit entry; the claim/release cycle adds neither.
	comments, err := env.store.Comments().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	statusEntries := 0
	for _, entry := range env.auditEntries(t, ticket.ID) {
		if entry.Action == domain.AuditStatusUpdated {
			statusEntries++
		}
	}
	assert.Equal(t, 1, statusEntries)
}

func TestAssignToggleClosedTicketKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	_, err := env.tickets.ChangeStatus(ctx, env.staff, ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)

	claimed, err := env.tickets.AssignToggle(ctx, env.staff2, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, claimed.Status)

	released, err := env.tickets.AssignToggle(ctx, env.staff2, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, released.Status)
}

func TestAssignToggleDeletedTicketNotFound(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	require.NoError(t, env.store.Tickets().Delete(ctx, ticket.ID))

	_, err := env.tickets.AssignToggle(ctx, env.staff, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

// vanishedRowStore drops the ticket row right before the conditional
// assignment write, simulating a delete racing the claim between the
// service's pre-read and its transaction.
type vanishedRowStore struct {
	repository.Store
}

func (s *vanishedRowStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.InTx(ctx, func(tx repository.Store) error {
		return fn(&vanishedRowTx{Store: tx})
	})
}

type vanishedRowTx struct {
	repository.Store
}

func (s *vanishedRowTx) Tickets() repository.TicketRepository {
	return &vanishedRowTickets{TicketRepository: s.Store.Tickets()}
}

type vanishedRowTickets struct {
	repository.TicketRepository
}

func (r *vanishedRowTickets) UpdateAssignment(ctx context.Context, ticketID string, expectedAgent, newAgent *string, status domain.TicketStatus) (bool, error) {
	if err := r.TicketRepository.Delete(ctx, ticketID); err != nil {
		return false, err
	}
	return r.TicketRepository.UpdateAssignment(ctx, ticketID, expectedAgent, newAgent, status)
}

func TestAssignToggleRowGoneMidClaim(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)

	svc := NewTicketService(&vanishedRowStore{Store: env.store}, audit.NewRecorder(), events.NewDispatcher(), env.tickets.blobs, zap.NewNop())

	// The failed conditional write must surface as the ticket being gone,
	// not as a concurrent-assignment conflict.
	_, err := svc.AssignToggle(context.Background(), env.staff, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestAssignToggleForbiddenForPlainUser(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)

	_, err := env.tickets.AssignToggle(context.Background(), env.owner, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAssignToggleConcurrentClaims(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	claimants := []*domain.User{env.staff, env.staff2}
	for i := range claimants {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.tickets.AssignToggle(ctx, claimants[i], ticket.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.IsCode(err, "CONFLICT"):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := env.store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AgentID)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)

	// Exactly one assignment audit entry.
	assigned := 0
	for _, entry := range env.auditEntries(t, ticket.ID) {
		if entry.Action == domain.AuditTicketAssigned {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}

func TestChangeStatusWritesSystemCommentAndAudit(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	updated, err := env.tickets.ChangeStatus(ctx, env.staff, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	comments, err := env.store.Comments().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsLog)
	assert.Equal(t, "changed status from 'open' to 'resolved'", comments[0].Message)
	assert.Equal(t, env.staff.ID, comments[0].AuthorID)

	entries := env.auditEntries(t, ticket.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditStatusUpdated, entries[1].Action)
	assert.Equal(t, "Staff 'Sam Staff' changed Ticket #"+ticket.ID+" status from 'open' to 'resolved'.", entries[1].Description)
}

func TestChangeStatusNoOp(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	updated, err := env.tickets.ChangeStatus(ctx, env.staff, ticket.ID, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)

	comments, err := env.store.Comments().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Len(t, env.auditEntries(t, ticket.ID), 1) // only the creation entry
}

func TestChangeStatusForbiddenForPlainUser(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)

	_, err := env.tickets.ChangeStatus(context.Background(), env.owner, ticket.ID, domain.TicketStatusClosed)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUpdateTicketOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()
	input := TicketUpdateInput{
		Title:       "Printer smoking",
		Description: "Downgraded from fire.",
		Priority:    domain.TicketPriorityMedium,
		CategoryID:  env.category.ID,
	}

	updated, err := env.tickets.Update(ctx, env.owner, ticket.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Printer smoking", updated.Title)

	// Staff see the ticket but cannot edit its fields.
	_, err = env.tickets.Update(ctx, env.staff, ticket.ID, input)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	// Foreign plain users cannot even see it.
	_, err = env.tickets.Update(ctx, env.stranger, ticket.ID, input)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestDeleteTicketCascadesAndAudits(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	_, err := env.comments.Add(ctx, env.owner, ticket.ID, "any update?")
	require.NoError(t, err)

	require.NoError(t, env.tickets.Delete(ctx, env.owner, ticket.ID))

	_, err = env.store.Tickets().GetByID(ctx, ticket.ID)
	assert.Error(t, err)
	comments, err := env.store.Comments().ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// The audit trail survives the ticket and keeps the title.
	entries := env.auditEntries(t, ticket.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditTicketDeleted, entries[1].Action)
	assert.Equal(t, "User 'Olivia Owner' deleted Ticket #"+ticket.ID+" ('Printer on fire').", entries[1].Description)
}

func TestDeleteTicketOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	err := env.tickets.Delete(ctx, env.staff, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	err = env.tickets.Delete(ctx, env.stranger, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestCommentVisibilityFollowsTicket(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	_, err := env.comments.Add(ctx, env.staff, ticket.ID, "looking into it")
	assert.NoError(t, err)

	_, err = env.comments.Add(ctx, env.stranger, ticket.ID, "me too")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	thread, err := env.comments.List(ctx, env.owner, ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.False(t, thread[0].IsLog)
}

func TestHistoryStaffOnly(t *testing.T) {
	env := newTestEnv(t)
	ticket := env.newTicket(t)
	ctx := context.Background()

	entries, err := env.tickets.History(ctx, env.staff, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = env.tickets.History(ctx, env.owner, ticket.ID)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}
