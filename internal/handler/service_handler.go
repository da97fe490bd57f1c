package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sevaportal/internal/service"
)

// ServiceHandler serves the public service catalog.
type ServiceHandler struct {
	catalog service.CatalogService
}

// NewServiceHandler creates a catalog handler.
func NewServiceHandler(catalog service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ListServices godoc
// @Summary List catalog services
// @Tags services
// @Produce json
// @Param category query string false "Exact category filter"
// @Success 200 {array} model.Service
// @Router /services [get]
func (h *ServiceHandler) ListServices(c echo.Context) error {
	services, err := h.catalog.ListByCategory(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, services)
}

// Categories godoc
// @Summary List service categories
// @Tags services
// @Produce json
// @Success 200 {array} string
// @Router /services/categories [get]
func (h *ServiceHandler) Categories(c echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetService godoc
// @Summary Get a catalog service
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} model.Service
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /services/{id} [get]
func (h *ServiceHandler) GetService(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, svc)
}
