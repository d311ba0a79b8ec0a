package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestCategoryDeleteBlockedByTickets(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCategoryService(env.store)
	ctx := context.Background()

	env.newTicket(t)

	err := svc.Delete(ctx, env.admin, env.category.ID)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	// An empty category deletes fine.
	empty, err := svc.Create(ctx, env.admin, CategoryInput{Name: "Unused"})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, env.admin, empty.ID))
}

func TestCategoryMutationsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCategoryService(env.store)
	ctx := context.Background()

	_, err := svc.Create(ctx, env.staff, CategoryInput{Name: "Nope"})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.Create(ctx, env.admin, CategoryInput{Name: "Billing"})
	assert.True(t, apperrors.IsCode(err, "CONFLICT")) // duplicate name
}

func TestCategoryListWithCounts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCategoryService(env.store)
	ctx := context.Background()

	env.newTicket(t)
	env.newTicket(t)

	counts, err := svc.ListWithCounts(ctx, env.staff)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 2, counts[0].TicketCount)

	_, err = svc.ListWithCounts(ctx, env.owner)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAdminUserUpdateRole(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminUserService(env.store)
	ctx := context.Background()

	promoted, err := svc.Update(ctx, env.admin, env.owner.ID, AdminUserUpdateInput{
		Name:  env.owner.Name,
		Email: env.owner.Email,
		Role:  "Staff", // case-insensitive
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, promoted.Role)

	_, err = svc.Update(ctx, env.admin, env.owner.ID, AdminUserUpdateInput{
		Name:  env.owner.Name,
		Email: env.owner.Email,
		Role:  "superuser",
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.Update(ctx, env.staff, env.owner.ID, AdminUserUpdateInput{
		Name: "x", Email: "x@example.com", Role: "user",
	})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAdminUserDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminUserService(env.store)
	ctx := context.Background()

	ticket := env.newTicket(t)

	// Admins cannot remove themselves.
	err := svc.Delete(ctx, env.admin, env.admin.ID)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	require.NoError(t, svc.Delete(ctx, env.admin, env.owner.ID))

	// The deleted account's tickets cascade away.
	_, err = env.store.Tickets().GetByID(ctx, ticket.ID)
	assert.Error(t, err)
}

func TestAdminUserDeleteCleansArticleAttachments(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminUserService(env.store)
	ctx := context.Background()

	articles := NewArticleService(env.store, env.tickets.blobs, env.tickets.logger)
	article, err := articles.Create(ctx, env.staff, ArticleInput{
		Title:      "Reset guide",
		Content:    "steps",
		CategoryID: env.category.ID,
	})
	require.NoError(t, err)

	attachment := &domain.Attachment{
		AttachableType: domain.AttachableArticle,
		AttachableID:   article.ID,
		FileName:       "guide.pdf",
		FilePath:       "blobs/guide.pdf",
		MimeType:       "application/pdf",
		SizeBytes:      42,
	}
	require.NoError(t, env.store.Attachments().Create(ctx, attachment))

	require.NoError(t, svc.Delete(ctx, env.admin, env.staff.ID))

	// The author's articles and their attachment records go together.
	_, err = env.store.Articles().GetByID(ctx, article.ID)
	assert.Error(t, err)
	remaining, err := env.store.Attachments().ListByAttachable(ctx, domain.AttachableArticle, article.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDashboardService(env.store)
	ctx := context.Background()

	env.newTicket(t)
	ticket := env.newTicket(t)
	_, err := env.tickets.ChangeStatus(ctx, env.staff, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, env.staff)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 1, stats.ByStatus[domain.TicketStatusResolved])
	assert.Equal(t, 2, stats.ByPriority[domain.TicketPriorityHigh])
	assert.Zero(t, stats.PastSLA)

	_, err = svc.Stats(ctx, env.owner)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewArticleService(env.store, env.tickets.blobs, env.tickets.logger)
	ctx := context.Background()

	_, err := svc.Create(ctx, env.owner, ArticleInput{Title: "How to reset", Content: "steps", CategoryID: env.category.ID})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	article, err := svc.Create(ctx, env.staff, ArticleInput{Title: "How to reset", Content: "steps", CategoryID: env.category.ID})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, env.staff2, article.ID, ArticleInput{Title: "How to reboot", Content: "steps", CategoryID: env.category.ID})
	require.NoError(t, err)
	assert.Equal(t, "How to reboot", updated.Title)

	require.NoError(t, svc.Delete(ctx, env.staff, article.ID))
	_, err = svc.Get(ctx, article.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
