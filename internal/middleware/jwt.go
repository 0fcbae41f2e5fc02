// Package middleware provides the shared request processing applied in
// front of the handlers: JWT authentication, permission enforcement,
// redis-backed response caching and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/model"
)

// Context keys set by JWTAuth and read by handlers and later middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth validates a Bearer access token signed with the given secret
// and stores the numeric user id and role in the request context.  Tokens
// with a non-HMAC signing method, a bad signature or unusable claims are
// rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			// Numeric claims arrive as float64 from encoding/json.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			roleStr, _ := claims["role"].(string)
			role := model.Role(roleStr)
			if !role.Valid() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid role"})
			}
			c.Set(ContextUserID, uint64(sub))
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}
