package handlers

import (
	"io"
	"net/http"
	"strconv"

	"oona/internal/common"
	"oona/internal/models"
	"oona/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminMenuHandlers handles menu management for staff
type AdminMenuHandlers struct {
	menuService services.MenuService
}

// NewAdminMenuHandlers creates a new admin menu handlers instance
func NewAdminMenuHandlers(menuService services.MenuService) *AdminMenuHandlers {
	return &AdminMenuHandlers{menuService: menuService}
}

// ListMenuItems handles GET /admin/menu, including unavailable items.
func (h *AdminMenuHandlers) ListMenuItems(c echo.Context) error {
	items, err := h.menuService.List(c.Request().Context())
	if err != nil {
		return sendServiceError(c, err, "Menu")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":      items,
		"categories": services.MenuCategories(items),
	})
}

// GetMenuItemForm handles GET /admin/menu/:id/form and returns the edit form
// prefilled from the stored item.
func (h *AdminMenuHandlers) GetMenuItemForm(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	item, err := h.menuService.GetByID(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return c.JSON(http.StatusOK, services.FormFromItem(item))
}

// CreateMenuItem handles POST /admin/menu
func (h *AdminMenuHandlers) CreateMenuItem(c echo.Context) error {
	var form models.MenuItemForm
	if err := c.Bind(&form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	item, err := h.menuService.Create(c.Request().Context(), &form)
	if err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem handles PUT /admin/menu/:id
func (h *AdminMenuHandlers) UpdateMenuItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	var form models.MenuItemForm
	if err := c.Bind(&form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	item, err := h.menuService.Update(c.Request().Context(), id, &form)
	if err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /admin/menu/:id?confirm=true
func (h *AdminMenuHandlers) DeleteMenuItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	if err := h.menuService.Delete(c.Request().Context(), id, confirmed); err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return c.NoContent(http.StatusNoContent)
}

// SetAvailability handles PATCH /admin/menu/:id/availability
func (h *AdminMenuHandlers) SetAvailability(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	var req struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Available == nil {
		return common.SendValidationError(c, "available", "available is required")
	}
	item, err := h.menuService.SetAvailability(c.Request().Context(), id, *req.Available)
	if err != nil {
		return sendServiceError(c, err, "Menu item")
	}
	return c.JSON(http.StatusOK, item)
}

// UploadImage handles POST /admin/menu/images with a multipart "image" field
// and returns the public URL to put in the item form.
func (h *AdminMenuHandlers) UploadImage(c echo.Context) error {
	header, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}

	file, err := header.Open()
	if err != nil {
		return common.SendClientError(c, "Unable to read image")
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == echo.MIMEOctetStream {
		// browsers omit the part type for unknown extensions
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return common.SendServerError(c, "Unable to read image")
		}
	}
	if err := services.ValidateImage(contentType, header.Size); err != nil {
		return sendServiceError(c, err, "Image")
	}

	form := &models.MenuItemForm{}
	upload := services.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}
	if err := h.menuService.UploadImage(c.Request().Context(), form, upload); err != nil {
		return sendServiceError(c, err, "Image")
	}

	return c.JSON(http.StatusCreated, map[string]string{"image_url": common.SafeString(form.ImageURL)})
}
