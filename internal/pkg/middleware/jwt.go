package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/safeyatra/safeyatra/internal/pkg/jwt"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// JWTMiddleware validates the bearer token on HTTP endpoints and stores the
// caller identity on the echo context.
func JWTMiddleware(cfg models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], cfg.Secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("user_name", claims.UserName)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
