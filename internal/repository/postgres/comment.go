package postgres

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type commentRepository struct {
	q Querier
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, author_id, message, is_log)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Message,
		comment.IsLog,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, author_id, message, is_log, created_at
        FROM comments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Message,
			&comment.IsLog,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM comments WHERE author_id=$1`, authorID)
	return err
}
