package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = newID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Role = user.Role
	stored.UpdatedAt = now()
	r.s.data.users[user.ID] = stored
	return nil
}

// Delete mirrors the foreign key behavior of the Postgres schema: owned
// tickets cascade (with their comments), held tickets revert to unclaimed,
// and audit entries keep their description but lose the actor reference.
func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.users, id)

	for ticketID, ticket := range r.s.data.tickets {
		if ticket.OwnerID == id {
			delete(r.s.data.tickets, ticketID)
			for commentID, comment := range r.s.data.comments {
				if comment.TicketID == ticketID {
					delete(r.s.data.comments, commentID)
				}
			}
			continue
		}
		if ticket.AgentID != nil && *ticket.AgentID == id {
			ticket.AgentID = nil
			r.s.data.tickets[ticketID] = ticket
		}
	}
	for i := range r.s.data.auditLogs {
		if r.s.data.auditLogs[i].ActorID != nil && *r.s.data.auditLogs[i].ActorID == id {
			r.s.data.auditLogs[i].ActorID = nil
		}
	}
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.data.users {
		if user.Email == email {
			stored := user
			return &stored, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.User, 0, len(r.s.data.users))
	for _, user := range r.s.data.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
