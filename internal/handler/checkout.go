package handler

import (
	"net/http"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/middleware"
	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID := middleware.UserID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.checkoutService.Checkout(ctx, userID, middleware.UserEmail(c), req.Items)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
