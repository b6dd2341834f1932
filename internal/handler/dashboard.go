package handler

import (
	"net/http"

	"github.com/fitcoach/fitcoach-api/internal/middleware"
	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) ListOrders(c echo.Context) error {
	orders, err := h.dashboardService.ListOrders(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *DashboardHandler) ListPrograms(c echo.Context) error {
	progress, err := h.dashboardService.ListProgramProgress(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progress)
}

func (h *DashboardHandler) ListBookings(c echo.Context) error {
	bookings, err := h.dashboardService.ListBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}
