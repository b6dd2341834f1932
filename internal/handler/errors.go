package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"error": "..."}.
// Domain errors keep their message; anything unexpected is logged and hidden.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, dto.ErrorResponse{Error: msg})
		}
		if err != nil {
			log.Error("write error response", slog.Any("error", err))
		}
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	}

	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest, "invalid signature"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrExternalService):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
