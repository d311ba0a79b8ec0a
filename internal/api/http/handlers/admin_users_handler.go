package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AdminUsersHandler manages the admin account endpoints.
type AdminUsersHandler struct {
	service *service.AdminUserService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(adminService *service.AdminUserService) *AdminUsersHandler {
	return &AdminUsersHandler{service: adminService}
}

// List GET /admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	listing, err := h.service.List(c.Context(), user)
	if err != nil {
		return err
	}

	resp := dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(listing.Users)),
		RoleCounts: make(map[string]int, len(listing.RoleCounts)),
	}
	for i := range listing.Users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&listing.Users[i]))
	}
	for role, count := range listing.RoleCounts {
		resp.RoleCounts[string(role)] = count
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get GET /admin/users/:id.
func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(account)})
}

// Update PUT /admin/users/:id.
func (h *AdminUsersHandler) Update(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Context(), user, c.Params("id"), service.AdminUserUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(updated)})
}

// Delete DELETE /admin/users/:id.
func (h *AdminUsersHandler) Delete(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
