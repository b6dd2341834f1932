package handler

import (
	"net/http"

	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListPrograms(c echo.Context) error {
	programs, err := h.catalogService.ListPrograms(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, programs)
}

func (h *CatalogHandler) GetProgram(c echo.Context) error {
	program, err := h.catalogService.GetProgram(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

func (h *CatalogHandler) ListCoachingPackages(c echo.Context) error {
	packages, err := h.catalogService.ListCoachingPackages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, packages)
}
