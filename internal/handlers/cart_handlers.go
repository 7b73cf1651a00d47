package handlers

import (
	"net/http"
	"time"

	"oona/internal/cart"
	"oona/internal/common"
	"oona/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CartCookieName identifies the customer's cart between requests.
	CartCookieName = "oona_cart"
	cartCookieTTL  = 12 * time.Hour
)

// CartHandlers exposes the customer's cart.
type CartHandlers struct {
	cartService services.CartService
}

// NewCartHandlers creates a new cart handlers instance
func NewCartHandlers(cartService services.CartService) *CartHandlers {
	return &CartHandlers{cartService: cartService}
}

// cartSessionID returns the cart cookie value, issuing a new one when the
// request has none and create is set.
func cartSessionID(c echo.Context, create bool) string {
	if cookie, err := c.Cookie(CartCookieName); err == nil {
		if _, perr := uuid.Parse(cookie.Value); perr == nil {
			return cookie.Value
		}
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     CartCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(cartCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func cartResponse(c echo.Context, cr *cart.Cart) error {
	return c.JSON(http.StatusOK, cr.View())
}

// GetCart handles GET /menu/cart
func (h *CartHandlers) GetCart(c echo.Context) error {
	sessionID := cartSessionID(c, false)
	if sessionID == "" {
		return cartResponse(c, cart.New())
	}
	cr, err := h.cartService.Get(c.Request().Context(), sessionID)
	if err != nil {
		return sendServiceError(c, err, "Cart")
	}
	return cartResponse(c, cr)
}

// AddCartItem handles POST /menu/cart/items
func (h *CartHandlers) AddCartItem(c echo.Context) error {
	var req struct {
		MenuItemID string `json:"menu_item_id" form:"menu_item_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	id, err := common.ValidateUUID(req.MenuItemID, "menu_item_id")
	if err != nil {
		return common.SendValidationError(c, "menu_item_id", err.Error())
	}

	cr, err := h.cartService.AddMenuItem(c.Request().Context(), cartSessionID(c, true), id)
	if err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return cartResponse(c, cr)
}

// UpdateCartItem handles PATCH /menu/cart/items/:id. A quantity of zero or
// less removes the entry.
func (h *CartHandlers) UpdateCartItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	var req struct {
		Quantity *int `json:"quantity" form:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Quantity == nil {
		return common.SendValidationError(c, "quantity", "quantity is required")
	}

	cr, err := h.cartService.UpdateQuantity(c.Request().Context(), cartSessionID(c, true), id, *req.Quantity)
	if err != nil {
		return sendServiceError(c, err, "Cart item")
	}
	return cartResponse(c, cr)
}

// RemoveCartItem handles DELETE /menu/cart/items/:id
func (h *CartHandlers) RemoveCartItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	sessionID := cartSessionID(c, false)
	if sessionID == "" {
		return cartResponse(c, cart.New())
	}
	cr, err := h.cartService.Remove(c.Request().Context(), sessionID, id)
	if err != nil {
		return sendServiceError(c, err, "Cart item")
	}
	return cartResponse(c, cr)
}

// ClearCart handles DELETE /menu/cart
func (h *CartHandlers) ClearCart(c echo.Context) error {
	if sessionID := cartSessionID(c, false); sessionID != "" {
		if err := h.cartService.Clear(c.Request().Context(), sessionID); err != nil {
			return sendServiceError(c, err, "Cart")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
