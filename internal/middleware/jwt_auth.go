package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tanvirhm/recipe-vault/backend/internal/auth"
)

// ClaimsContextKey is where verified token claims are stored on the request context.
const ClaimsContextKey = "user"

// JWTAuthMiddleware checks for a valid bearer token and puts its claims in
// the request context. The signing secret is injected at setup, never read
// from the environment here.
func JWTAuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := auth.ParseToken(parts[1], secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}

			c.Set(ClaimsContextKey, claims)

			return next(c)
		}
	}
}
