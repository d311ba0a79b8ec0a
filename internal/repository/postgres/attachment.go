package postgres

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type attachmentRepository struct {
	q Querier
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO attachments (attachable_type, attachable_id, file_name, file_path, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, uploaded_at`
	return r.q.QueryRow(ctx, query,
		attachment.AttachableType,
		attachment.AttachableID,
		attachment.FileName,
		attachment.FilePath,
		attachment.MimeType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.UploadedAt)
}

func (r *attachmentRepository) ListByAttachable(ctx context.Context, attachableType domain.AttachableType, attachableID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, attachable_type, attachable_id, file_name, file_path, mime_type, size_bytes, uploaded_at
        FROM attachments WHERE attachable_type=$1 AND attachable_id=$2
        ORDER BY uploaded_at ASC`
	rows, err := r.q.Query(ctx, query, attachableType, attachableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.AttachableType,
			&attachment.AttachableID,
			&attachment.FileName,
			&attachment.FilePath,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) DeleteByAttachable(ctx context.Context, attachableType domain.AttachableType, attachableID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM attachments WHERE attachable_type=$1 AND attachable_id=$2`,
		attachableType, attachableID)
	return err
}
