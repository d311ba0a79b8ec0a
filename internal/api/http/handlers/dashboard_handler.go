package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// DashboardHandler serves staff overview statistics.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Stats GET /dashboard.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Context(), user)
	if err != nil {
		return err
	}

	resp := dto.DashboardResponse{
		Total:      stats.Total,
		ByStatus:   make(map[string]int, len(stats.ByStatus)),
		ByPriority: make(map[string]int, len(stats.ByPriority)),
		PastSLA:    stats.PastSLA,
	}
	for status, count := range stats.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	for priority, count := range stats.ByPriority {
		resp.ByPriority[string(priority)] = count
	}
	return c.JSON(fiber.Map{"data": resp})
}
