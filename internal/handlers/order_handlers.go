package handlers

import (
	"net/http"

	"oona/internal/common"
	"oona/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles customer checkout and order confirmation
type OrderHandlers struct {
	checkoutService services.CheckoutService
	orderService    services.OrderService
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(checkoutService services.CheckoutService, orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Checkout handles POST /menu/checkout
func (h *OrderHandlers) Checkout(c echo.Context) error {
	var req services.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	sessionID := cartSessionID(c, false)
	if sessionID == "" {
		return sendServiceError(c, services.ErrEmptyCart, "Cart")
	}

	result, err := h.checkoutService.PlaceOrder(c.Request().Context(), sessionID, req)
	if err != nil {
		return sendServiceError(c, err, "Order")
	}
	return c.JSON(http.StatusCreated, result)
}

// GetConfirmation handles GET /menu/success/:id
func (h *OrderHandlers) GetConfirmation(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	order, err := h.orderService.GetByID(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err, "Order")
	}
	return c.JSON(http.StatusOK, order)
}
