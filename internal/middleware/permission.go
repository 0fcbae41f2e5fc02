package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skylane/airline-reservation/internal/model"
)

// RequirePermission enforces that the authenticated user's role grants
// the given permission.  It assumes JWTAuth already stored the role in
// the context.  Admins pass automatically because their set reports
// HasAll; the check stays an explicit set lookup, there is no "ALL"
// permission value mixed into the enum.
func RequirePermission(p model.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(model.Role)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if !model.RolePermissions(role).Has(p) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
