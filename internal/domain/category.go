package domain

import "time"

// Category groups tickets and knowledge base articles by topic.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryWithCount pairs a category with the number of tickets filed under it.
type CategoryWithCount struct {
	Category
	TicketCount int
}
