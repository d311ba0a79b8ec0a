package domain

import "time"

// Comment is a message in a ticket's conversation thread. IsLog marks
// system-generated transition notes written by the lifecycle engine; those
// are never authored directly by a caller. Comments are immutable and are
// removed only when their ticket is deleted.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Message   string
	IsLog     bool
	CreatedAt time.Time
}
