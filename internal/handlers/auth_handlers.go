package handlers

import (
	"net/http"

	"oona/internal/common"
	"oona/internal/models"
	"oona/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles staff sign in and sign out
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	models.TokenResponse
	Session *models.Session `json:"session"`
}

// Login handles POST /admin/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	token, session, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		return sendServiceError(c, err, "Staff user")
	}

	return c.JSON(http.StatusOK, LoginResponse{TokenResponse: *token, Session: session})
}

// Logout handles POST /admin/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	session, ok := common.GetSessionFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if err := h.authService.SignOut(c.Request().Context(), session.ID); err != nil {
		return sendServiceError(c, err, "Session")
	}
	return c.NoContent(http.StatusNoContent)
}

// Session handles GET /admin/session
func (h *AuthHandlers) Session(c echo.Context) error {
	session, ok := common.GetSessionFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, session)
}
