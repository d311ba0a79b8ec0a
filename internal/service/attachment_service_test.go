package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newAttachmentService(env *testEnv) *AttachmentService {
	articles := NewArticleService(env.store, env.tickets.blobs, env.tickets.logger)
	return NewAttachmentService(env.store, env.tickets.blobs, env.tickets, articles)
}

func TestUploadTicketAttachmentOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := newAttachmentService(env)
	ticket := env.newTicket(t)
	ctx := context.Background()

	input := func() UploadInput {
		return UploadInput{
			AttachableType: domain.AttachableTicket,
			AttachableID:   ticket.ID,
			FileName:       "screenshot.png",
			MimeType:       "image/png",
			SizeBytes:      5,
			Content:        strings.NewReader("bytes"),
		}
	}

	attachment, err := svc.Upload(ctx, env.owner, input())
	require.NoError(t, err)
	assert.Equal(t, "screenshot.png", attachment.FileName)
	assert.NotEmpty(t, attachment.FilePath)

	// Staff can read the ticket but may not attach to it.
	_, err = svc.Upload(ctx, env.staff, input())
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	// Foreign plain users do not learn the ticket exists.
	_, err = svc.Upload(ctx, env.stranger, input())
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	listed, err := svc.ListForTicket(ctx, env.owner, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestUploadRejectsBadSize(t *testing.T) {
	env := newTestEnv(t)
	svc := newAttachmentService(env)
	ticket := env.newTicket(t)

	_, err := svc.Upload(context.Background(), env.owner, UploadInput{
		AttachableType: domain.AttachableTicket,
		AttachableID:   ticket.ID,
		FileName:       "empty.bin",
		SizeBytes:      0,
		Content:        strings.NewReader(""),
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestDeleteTicketRemovesAttachmentRows(t *testing.T) {
	env := newTestEnv(t)
	svc := newAttachmentService(env)
	ticket := env.newTicket(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, env.owner, UploadInput{
		AttachableType: domain.AttachableTicket,
		AttachableID:   ticket.ID,
		FileName:       "log.txt",
		MimeType:       "text/plain",
		SizeBytes:      3,
		Content:        strings.NewReader("abc"),
	})
	require.NoError(t, err)

	require.NoError(t, env.tickets.Delete(ctx, env.owner, ticket.ID))

	remaining, err := env.store.Attachments().ListByAttachable(ctx, domain.AttachableTicket, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
