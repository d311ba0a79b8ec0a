// Package memory implements repository.Store with in-process maps. It backs
// the service when POSTGRES_DSN is not configured (local development) and
// the service-level tests.
//
// Transactions are serialized by a single mutex and rolled back by snapshot,
// which gives the same observable guarantees the Postgres store provides for
// this workload: conditional assignment writes are atomic, and a failed
// transaction leaves no partial state behind.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Store is the in-memory repository.Store.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *data
}

type data struct {
	users       map[string]domain.User
	categories  map[string]domain.Category
	tickets     map[string]domain.Ticket
	comments    map[string]domain.Comment
	attachments map[string]domain.Attachment
	articles    map[string]domain.Article
	auditLogs   []domain.AuditLog
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{data: &data{
		users:       make(map[string]domain.User),
		categories:  make(map[string]domain.Category),
		tickets:     make(map[string]domain.Ticket),
		comments:    make(map[string]domain.Comment),
		attachments: make(map[string]domain.Attachment),
		articles:    make(map[string]domain.Article),
	}}
}

func (s *Store) Users() repository.UserRepository             { return &userRepo{s: s} }
func (s *Store) Categories() repository.CategoryRepository    { return &categoryRepo{s: s} }
func (s *Store) Tickets() repository.TicketRepository         { return &ticketRepo{s: s} }
func (s *Store) Comments() repository.CommentRepository       { return &commentRepo{s: s} }
func (s *Store) Attachments() repository.AttachmentRepository { return &attachmentRepo{s: s} }
func (s *Store) Articles() repository.ArticleRepository       { return &articleRepo{s: s} }
func (s *Store) AuditLogs() repository.AuditLogRepository     { return &auditLogRepo{s: s} }

// InTx serializes transactions and restores the pre-transaction snapshot on
// failure.
func (s *Store) InTx(_ context.Context, fn func(repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (d *data) clone() *data {
	out := &data{
		users:       make(map[string]domain.User, len(d.users)),
		categories:  make(map[string]domain.Category, len(d.categories)),
		tickets:     make(map[string]domain.Ticket, len(d.tickets)),
		comments:    make(map[string]domain.Comment, len(d.comments)),
		attachments: make(map[string]domain.Attachment, len(d.attachments)),
		articles:    make(map[string]domain.Article, len(d.articles)),
		auditLogs:   make([]domain.AuditLog, len(d.auditLogs)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.categories {
		out.categories[k] = v
	}
	for k, v := range d.tickets {
		out.tickets[k] = v
	}
	for k, v := range d.comments {
		out.comments[k] = v
	}
	for k, v := range d.attachments {
		out.attachments[k] = v
	}
	for k, v := range d.articles {
		out.articles[k] = v
	}
	copy(out.auditLogs, d.auditLogs)
	return out
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}
