package middleware

import (
	"errors"
	"net/http"

	"oona/internal/common"
	"oona/internal/services"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// TokenContextKey is where echojwt stores the parsed *jwt.Token.
const TokenContextKey = "user"

// JWTConfig validates admin bearer tokens. The query lookup exists for
// websocket clients, which cannot set an Authorization header.
func JWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    TokenContextKey,
		TokenLookup:   "header:Authorization:Bearer ,query:token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// JWTMiddleware handles JWT token validation
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(JWTConfig(secret))
}

// ClaimsFromContext returns the claims of a token validated by JWTMiddleware.
func ClaimsFromContext(c echo.Context) (*services.TokenClaims, bool) {
	token, ok := c.Get(TokenContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*services.TokenClaims)
	return claims, ok
}

// RequireSession rejects tokens whose session was signed out or expired and
// puts the live session on the request context.
func RequireSession(auth services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok || claims.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
			}

			session, err := auth.CurrentSession(c.Request().Context(), claims.ID)
			if err != nil {
				if !errors.Is(err, services.ErrSessionNotFound) {
					log.Errorf("session lookup failed: %v", err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
			}

			ctx := common.WithSession(c.Request().Context(), session)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
