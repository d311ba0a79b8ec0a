package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type ticketRepository struct {
	q Querier
}

const ticketColumns = `id, title, description, priority, status, owner_id, category_id, agent_id, sla_hours, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, priority, status, owner_id, category_id, agent_id, sla_hours)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.OwnerID,
		ticket.CategoryID,
		ticket.AgentID,
		ticket.SLAHours,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, category_id=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.q.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.CategoryID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.q.Exec(ctx, query, status, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateAssignment writes agent and status together, conditioned on the
// agent value the caller previously read. A false return means the row was
// claimed or released by someone else in between.
func (r *ticketRepository) UpdateAssignment(ctx context.Context, ticketID string, expectedAgent, newAgent *string, status domain.TicketStatus) (bool, error) {
	var (
		cmdErr error
		rows   int64
	)
	if expectedAgent == nil {
		const query = `
            UPDATE tickets SET agent_id=$1, status=$2, updated_at=NOW()
            WHERE id=$3 AND agent_id IS NULL`
		cmd, err := r.q.Exec(ctx, query, newAgent, status, ticketID)
		cmdErr, rows = err, cmd.RowsAffected()
	} else {
		const query = `
            UPDATE tickets SET agent_id=$1, status=$2, updated_at=NOW()
            WHERE id=$3 AND agent_id=$4`
		cmd, err := r.q.Exec(ctx, query, newAgent, status, ticketID, *expectedAgent)
		cmdErr, rows = err, cmd.RowsAffected()
	}
	if cmdErr != nil {
		return false, cmdErr
	}
	return rows > 0, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

// GetByIDForOwner scopes the lookup to the owner's tickets, so a foreign
// ticket is indistinguishable from a missing one.
func (r *ticketRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND owner_id=$2`, ticketColumns)
	return r.fetchSingle(ctx, query, id, ownerID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.q.QueryRow(ctx, query, args...), &ticket); err != nil {
		return nil, mapNotFound(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE category_id=$1`, categoryID).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var (
			status domain.TicketStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByPriority(ctx context.Context) (map[domain.TicketPriority]int, error) {
	rows, err := r.q.Query(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketPriority]int)
	for rows.Next() {
		var (
			priority domain.TicketPriority
			count    int
		)
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.OwnerID,
		&ticket.CategoryID,
		&ticket.AgentID,
		&ticket.SLAHours,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
