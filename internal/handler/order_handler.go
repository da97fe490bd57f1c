package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sevaportal/internal/model"
	"sevaportal/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrderRequest represents an order placement.
type CreateOrderRequest struct {
	ServiceID uint   `json:"service_id" validate:"required"`
	Notes     string `json:"notes" validate:"max=2000"`
}

// UpdateStatusRequest carries a new order or payment status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder godoc
// @Summary Place an order for a service
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.orders.Create(c.Request().Context(), claims.UserID, req.ServiceID, req.Notes)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListForUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get one order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), claims.UserID, id, claims.IsAdmin())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListAllOrders godoc
// @Summary List every order
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.orders.ListAll(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus godoc
// @Summary Set an order's processing status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body UpdateStatusRequest true "pending, processing, completed or cancelled"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, req, err := h.bindStatus(c)
	if err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdatePaymentStatus godoc
// @Summary Set an order's payment status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body UpdateStatusRequest true "pending, paid, failed or refunded"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/payment-status [patch]
func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	id, req, err := h.bindStatus(c)
	if err != nil {
		return err
	}
	order, err := h.orders.UpdatePaymentStatus(c.Request().Context(), id, model.PaymentStatus(req.Status))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) bindStatus(c echo.Context) (uint, *UpdateStatusRequest, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return 0, nil, err
	}
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return 0, nil, err
	}
	return id, &req, nil
}
