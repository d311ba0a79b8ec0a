package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type ticketRepo struct {
	s *Store
}

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket.ID = newID()
	ticket.CreatedAt = now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.s.data.tickets[ticket.ID] = *ticket
	return nil
}

func (r *ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = ticket.Title
	stored.Description = ticket.Description
	stored.Priority = ticket.Priority
	stored.CategoryID = ticket.CategoryID
	stored.UpdatedAt = now()
	r.s.data.tickets[ticket.ID] = stored
	return nil
}

func (r *ticketRepo) UpdateStatus(_ context.Context, ticketID string, status domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.tickets[ticketID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = status
	stored.UpdatedAt = now()
	r.s.data.tickets[ticketID] = stored
	return nil
}

func (r *ticketRepo) UpdateAssignment(_ context.Context, ticketID string, expectedAgent, newAgent *string, status domain.TicketStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.tickets[ticketID]
	if !ok {
		return false, nil
	}
	switch {
	case expectedAgent == nil && stored.AgentID != nil:
		return false, nil
	case expectedAgent != nil && (stored.AgentID == nil || *stored.AgentID != *expectedAgent):
		return false, nil
	}
	if newAgent != nil {
		agent := *newAgent
		stored.AgentID = &agent
	} else {
		stored.AgentID = nil
	}
	stored.Status = status
	stored.UpdatedAt = now()
	r.s.data.tickets[ticketID] = stored
	return true, nil
}

func (r *ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *ticketRepo) GetByIDForOwner(_ context.Context, id, ownerID string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.tickets[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []domain.Ticket
	for _, ticket := range r.s.data.tickets {
		if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

// Delete removes the ticket and cascades its comments, mirroring the
// ON DELETE CASCADE constraint of the Postgres schema.
func (r *ticketRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.tickets, id)
	for commentID, comment := range r.s.data.comments {
		if comment.TicketID == id {
			delete(r.s.data.comments, commentID)
		}
	}
	return nil
}

func (r *ticketRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, ticket := range r.s.data.tickets {
		if ticket.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *ticketRepo) CountByStatus(_ context.Context) (map[domain.TicketStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make(map[domain.TicketStatus]int)
	for _, ticket := range r.s.data.tickets {
		result[ticket.Status]++
	}
	return result, nil
}

func (r *ticketRepo) CountByPriority(_ context.Context) (map[domain.TicketPriority]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make(map[domain.TicketPriority]int)
	for _, ticket := range r.s.data.tickets {
		result[ticket.Priority]++
	}
	return result, nil
}

func containsStatus(list []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == priority {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
