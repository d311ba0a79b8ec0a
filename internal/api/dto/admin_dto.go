package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryRequest payload for create and update.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CategoryResponse is the public category view.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithCountResponse adds the ticket total.
type CategoryWithCountResponse struct {
	CategoryResponse
	TicketCount int `json:"ticket_count"`
}

// UpdateUserRequest is the admin account edit payload.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// UserListResponse pairs accounts with role totals.
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	RoleCounts map[string]int `json:"role_counts"`
}

// DashboardResponse is the staff overview payload.
type DashboardResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	PastSLA    int            `json:"past_sla"`
}

// ArticleRequest payload for create and update.
type ArticleRequest struct {
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"category_id" validate:"required,uuid4"`
}

// ArticleResponse is the public article view.
type ArticleResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID string    `json:"category_id"`
	AuthorID   string    `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// NewArticleResponse maps a domain article.
func NewArticleResponse(article *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:         article.ID,
		Title:      article.Title,
		Content:    article.Content,
		CategoryID: article.CategoryID,
		AuthorID:   article.AuthorID,
		CreatedAt:  article.CreatedAt,
		UpdatedAt:  article.UpdatedAt,
	}
}
