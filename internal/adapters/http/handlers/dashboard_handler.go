package handlers

import (
	"smpc-coopfund/internal/core/services"
	"smpc-coopfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles staff dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	reminderService  *services.ReminderService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, reminderService *services.ReminderService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reminderService:  reminderService,
	}
}

// GetDashboard returns operational statistics for staff
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "OK", data)
}

// RunOverdueScan triggers the overdue reminder scan manually
func (h *DashboardHandler) RunOverdueScan(c *fiber.Ctx) error {
	if err := h.reminderService.RunOverdueScan(c.Context()); err != nil {
		return response.InternalServerError(c, "Overdue scan failed")
	}

	return response.Success(c, "Overdue scan completed", nil)
}
