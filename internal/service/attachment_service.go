package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// MaxAttachmentSize caps uploads at 10 MiB.
const MaxAttachmentSize = 10 << 20

// AttachmentService stores uploaded files and their metadata. Ticket
// attachments may only be added by the ticket's creator; article attachments
// by staff.
type AttachmentService struct {
	store    repository.Store
	blobs    storage.BlobStore
	tickets  *TicketService
	articles *ArticleService
}

// NewAttachmentService constructs the service.
func NewAttachmentService(store repository.Store, blobs storage.BlobStore, tickets *TicketService, articles *ArticleService) *AttachmentService {
	return &AttachmentService{store: store, blobs: blobs, tickets: tickets, articles: articles}
}

// UploadInput describes an incoming file.
type UploadInput struct {
	AttachableType domain.AttachableType
	AttachableID   string
	FileName       string
	MimeType       string
	SizeBytes      int64
	Content        io.Reader
}

// Upload stores the file content and records its metadata.
func (s *AttachmentService) Upload(ctx context.Context, actor *domain.User, input UploadInput) (*domain.Attachment, error) {
	if input.SizeBytes <= 0 || input.SizeBytes > MaxAttachmentSize {
		return nil, apperrors.NewValidationError("file size out of range", map[string]any{"size_bytes": input.SizeBytes})
	}

	switch input.AttachableType {
	case domain.AttachableTicket:
		ticket, err := s.tickets.visibleTicket(ctx, actor, input.AttachableID)
		if err != nil {
			return nil, err
		}
		if ticket.OwnerID != actor.ID {
			return nil, apperrors.NewForbidden("only the ticket creator can attach files")
		}
	case domain.AttachableArticle:
		if !authz.CanAuthorArticles(actor) {
			return nil, apperrors.NewForbidden("staff role required")
		}
		if _, err := s.articles.get(ctx, input.AttachableID); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewValidationError("unknown attachable type", map[string]any{"type": string(input.AttachableType)})
	}

	path := fmt.Sprintf("%s/%s/%s%s",
		input.AttachableType, input.AttachableID, uuid.NewString(), filepath.Ext(input.FileName))
	storedPath, err := s.blobs.Save(path, io.LimitReader(input.Content, MaxAttachmentSize))
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	attachment := &domain.Attachment{
		AttachableType: input.AttachableType,
		AttachableID:   input.AttachableID,
		FileName:       input.FileName,
		FilePath:       storedPath,
		MimeType:       input.MimeType,
		SizeBytes:      input.SizeBytes,
	}
	if err := s.store.Attachments().Create(ctx, attachment); err != nil {
		// Metadata failed; drop the orphaned blob.
		_ = s.blobs.Delete(storedPath)
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListForTicket returns attachment metadata for a ticket the actor can read.
func (s *AttachmentService) ListForTicket(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Attachment, error) {
	if _, err := s.tickets.visibleTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	attachments, err := s.store.Attachments().ListByAttachable(ctx, domain.AttachableTicket, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachments, nil
}
