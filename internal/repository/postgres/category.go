package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type categoryRepository struct {
	q Querier
}

const categoryColumns = `id, name, description, created_at, updated_at`

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, description)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		category.Name,
		category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.q.Exec(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *categoryRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Category, error) {
	var category domain.Category
	if err := scanCategory(r.q.QueryRow(ctx, query, arg), &category); err != nil {
		return nil, mapNotFound(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := scanCategory(rows, &category); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *categoryRepository) ListWithTicketCounts(ctx context.Context) ([]domain.CategoryWithCount, error) {
	const query = `
        SELECT c.id, c.name, c.description, c.created_at, c.updated_at, COUNT(t.id)
        FROM categories c
        LEFT JOIN tickets t ON t.category_id = c.id
        GROUP BY c.id, c.name, c.description, c.created_at, c.updated_at
        ORDER BY c.created_at ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategoryWithCount
	for rows.Next() {
		var entry domain.CategoryWithCount
		if err := rows.Scan(
			&entry.ID,
			&entry.Name,
			&entry.Description,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.TicketCount,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanCategory(row pgx.Row, category *domain.Category) error {
	return row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
}
