package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type articleRepository struct {
	q Querier
}

const articleColumns = `id, title, content, category_id, author_id, created_at, updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, content, category_id, author_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.CategoryID,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, content=$2, category_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.q.Exec(ctx, query, article.Title, article.Content, article.CategoryID, article.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM articles WHERE id=$1`
	var article domain.Article
	if err := scanArticle(r.q.QueryRow(ctx, query, id), &article); err != nil {
		return nil, mapNotFound(err)
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM articles WHERE author_id=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, authorID)
}

func (r *articleRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM articles WHERE author_id=$1`, authorID)
	return err
}

func (r *articleRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := scanArticle(rows, &article); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func scanArticle(row pgx.Row, article *domain.Article) error {
	return row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.CategoryID,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
}
