package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the user id injected by the Auth middleware and
// fast-fails before any service call: a zero uid means the middleware
// never ran or the token carried no identity.
func ctxUserID(c echo.Context) (uint, error) {
	uid, _ := c.Get("uid").(uint)
	if uid == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return uid, nil
}
