package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AttachmentsHandler manages multipart file uploads.
type AttachmentsHandler struct {
	service *service.AttachmentService
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(attachmentService *service.AttachmentService) *AttachmentsHandler {
	return &AttachmentsHandler{service: attachmentService}
}

// Upload POST /attachments/:type/:id accepts a multipart "file" field.
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	attachableType, ok := domain.ParseAttachableType(c.Params("type"))
	if !ok {
		return apperrors.NewValidationError("unknown attachable type", map[string]any{"type": c.Params("type")})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file field required", nil)
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	attachment, err := h.service.Upload(c.Context(), user, service.UploadInput{
		AttachableType: attachableType,
		AttachableID:   c.Params("id"),
		FileName:       header.Filename,
		MimeType:       header.Header.Get("Content-Type"),
		SizeBytes:      header.Size,
		Content:        file,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAttachmentResponse(attachment)})
}

// ListForTicket GET /tickets/:id/attachments.
func (h *AttachmentsHandler) ListForTicket(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	attachments, err := h.service.ListForTicket(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, dto.NewAttachmentResponse(&attachments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
