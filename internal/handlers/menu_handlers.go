package handlers

import (
	"net/http"

	"oona/internal/common"
	"oona/internal/services"

	"github.com/labstack/echo/v4"
)

// MenuHandlers serves the public menu to customers.
type MenuHandlers struct {
	menuService services.MenuService
}

// NewMenuHandlers creates a new menu handlers instance
func NewMenuHandlers(menuService services.MenuService) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

// BrowseMenu handles GET /menu?search=&category=
func (h *MenuHandlers) BrowseMenu(c echo.Context) error {
	result, err := h.menuService.Browse(c.Request().Context(), c.QueryParam("search"), c.QueryParam("category"))
	if err != nil {
		return sendServiceError(c, err, "Menu")
	}
	return c.JSON(http.StatusOK, result)
}

// GetMenuItem handles GET /menu/items/:id
func (h *MenuHandlers) GetMenuItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	item, err := h.menuService.GetByID(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return c.JSON(http.StatusOK, item)
}
