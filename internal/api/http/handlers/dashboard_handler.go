package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/dashboard"
	"github.com/spec-kit/demand-service/internal/service"
)

// DashboardHandler serves aggregate counters.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// Summary GET /dashboard?analista=.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.UserContext(), dashboard.Filter{Analista: c.Query("analista")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Incomplete GET /dashboard/incomplete.
func (h *DashboardHandler) Incomplete(c *fiber.Ctx) error {
	views, err := h.dashboard.IncompleteDocuments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}
