package handler

import (
	"net/http"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.contactService.Submit(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]bool{"success": true})
}

func (h *ContactHandler) Subscribe(c echo.Context) error {
	var req dto.NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.contactService.Subscribe(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
