package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ArticlesHandler manages knowledge base endpoints.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// List GET /articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	articles, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /articles/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Create POST /articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	article, err := h.service.Create(c.Context(), user, service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Update PUT /articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	article, err := h.service.Update(c.Context(), user, c.Params("id"), service.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// Delete DELETE /articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
