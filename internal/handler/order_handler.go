package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bistro/internal/model"
	"bistro/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents an order placement. Customer is optional and,
// when present, must match the caller; the server decides ownership either way.
type CreateOrderRequest struct {
	Items    []uint `json:"items" validate:"required"`
	Customer *uint  `json:"customer"`
}

// UpdateOrderRequest represents an order status change. Any other fields in
// the payload are ignored; status is the only mutable field.
type UpdateOrderRequest struct {
	Status model.OrderStatus `json:"status" validate:"required"`
}

// List godoc
// @Summary List orders visible to the caller
// @Tags orders
// @Produce json
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders/ [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderService.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Get godoc
// @Summary Retrieve an order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/ [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(err)
	}
	order, err := h.orderService.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Create godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order items"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /orders/ [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.Create(c.Request().Context(), currentUser(c), req.Items, req.Customer)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateStatus godoc
// @Summary Update an order's status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body UpdateOrderRequest true "New status"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/ [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(err)
	}

	var req UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), currentUser(c), id, req.Status)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, order)
}
