package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high critical"`
	CategoryID  string `json:"category_id" validate:"required,uuid4"`
	SLAHours    *int   `json:"sla_hours" validate:"omitempty,min=1"`
}

// UpdateTicketRequest payload.
type UpdateTicketRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high critical"`
	CategoryID  string `json:"category_id" validate:"required,uuid4"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// TicketResponse is the list/summary view.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	OwnerID     string                `json:"owner_id"`
	CategoryID  string                `json:"category_id"`
	AgentID     *string               `json:"agent_id"`
	SLAHours    *int                  `json:"sla_hours"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse adds the thread and the files.
type TicketDetailResponse struct {
	TicketResponse
	Comments    []CommentResponse    `json:"comments"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Message   string    `json:"message"`
	IsLog     bool      `json:"is_log"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AuditLogResponse is one history entry.
type AuditLogResponse struct {
	ID          string    `json:"id"`
	ActorID     *string   `json:"actor_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		OwnerID:     ticket.OwnerID,
		CategoryID:  ticket.CategoryID,
		AgentID:     ticket.AgentID,
		SLAHours:    ticket.SLAHours,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketListResponse maps a slice of tickets.
func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, NewTicketResponse(&tickets[i]))
	}
	return result
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Message:   comment.Message,
		IsLog:     comment.IsLog,
		CreatedAt: comment.CreatedAt,
	}
}

// NewAttachmentResponse maps attachment metadata.
func NewAttachmentResponse(attachment *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         attachment.ID,
		FileName:   attachment.FileName,
		MimeType:   attachment.MimeType,
		SizeBytes:  attachment.SizeBytes,
		UploadedAt: attachment.UploadedAt,
	}
}

// NewTicketDetailResponse maps a ticket with its thread and files.
func NewTicketDetailResponse(ticket *domain.Ticket, comments []domain.Comment, attachments []domain.Attachment) TicketDetailResponse {
	resp := TicketDetailResponse{
		TicketResponse: NewTicketResponse(ticket),
		Comments:       make([]CommentResponse, 0, len(comments)),
		Attachments:    make([]AttachmentResponse, 0, len(attachments)),
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(&comments[i]))
	}
	for i := range attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(&attachments[i]))
	}
	return resp
}

// NewAuditLogResponses maps audit entries.
func NewAuditLogResponses(entries []domain.AuditLog) []AuditLogResponse {
	result := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, AuditLogResponse{
			ID:          entry.ID,
			ActorID:     entry.ActorID,
			Action:      string(entry.Action),
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return result
}
