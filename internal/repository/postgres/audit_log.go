package postgres

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type auditLogRepository struct {
	q Querier
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (actor_id, action, description, entity_type, entity_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		entry.ActorID,
		entry.Action,
		entry.Description,
		entry.EntityType,
		entry.EntityID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.AuditLog, error) {
	const query = `
        SELECT id, actor_id, action, description, entity_type, entity_id, created_at
        FROM audit_logs WHERE entity_type=$1 AND entity_id=$2
        ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.Description,
			&entry.EntityType,
			&entry.EntityID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
