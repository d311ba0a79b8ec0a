// Package postgres implements repository.Store on top of a pgx connection
// pool. Repositories run against either the pool or an open transaction via
// the Querier interface, which both satisfy.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Querier is the subset of pgx used by the repositories. *pgxpool.Pool and
// pgx.Tx both implement it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed repository.Store.
type Store struct {
	pool *pgxpool.Pool
	q    Querier
}

// NewStore builds a store bound to the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) Users() repository.UserRepository             { return &userRepository{q: s.q} }
func (s *Store) Categories() repository.CategoryRepository    { return &categoryRepository{q: s.q} }
func (s *Store) Tickets() repository.TicketRepository         { return &ticketRepository{q: s.q} }
func (s *Store) Comments() repository.CommentRepository       { return &commentRepository{q: s.q} }
func (s *Store) Attachments() repository.AttachmentRepository { return &attachmentRepository{q: s.q} }
func (s *Store) Articles() repository.ArticleRepository       { return &articleRepository{q: s.q} }
func (s *Store) AuditLogs() repository.AuditLogRepository     { return &auditLogRepository{q: s.q} }

// InTx runs fn within a database transaction. Nested calls reuse the open
// transaction rather than starting a new one.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, ok := s.q.(pgx.Tx); ok {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	txStore := &Store{pool: s.pool, q: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// mapNotFound translates the pgx sentinel into the repository one.
func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
