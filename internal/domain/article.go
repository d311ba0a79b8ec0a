package domain

import "time"

// Article is a knowledge base entry authored by staff.
type Article struct {
	ID         string
	Title      string
	Content    string
	CategoryID string
	AuthorID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
