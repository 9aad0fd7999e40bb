package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AthrunAshy/flasky/internal/api/metrics"
	"github.com/AthrunAshy/flasky/internal/core/domain"
)

// RequirePermission enforces a permission check against the bitmask the
// Auth middleware extracted from the session token. Requests without the
// permission get 403; requests that never went through Auth carry an empty
// mask and are refused the same way.
func RequirePermission(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mask, _ := c.Get("perms").(int)
			if !domain.HasPermission(mask, perm) {
				metrics.PermissionDeniedTotal.Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireAdmin is shorthand for RequirePermission(domain.PermissionAdmin).
func RequireAdmin() echo.MiddlewareFunc {
	return RequirePermission(domain.PermissionAdmin)
}
