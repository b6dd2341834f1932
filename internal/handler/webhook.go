package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/labstack/echo/v4"
)

// maxWebhookBody caps how much of the raw payload is read.
const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// Stripe verifies the raw bytes, so the body must not be bound or re-encoded.
func (h *WebhookHandler) Stripe(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := h.webhookService.HandleWebhook(ctx, payload, signature); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
