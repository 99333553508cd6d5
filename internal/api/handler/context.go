package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicstats/identity-api/internal/api/middleware"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. A missing or non-positive id means the route was wired
// without the middleware; reject with 401 rather than trusting it.
func ctxUserID(c echo.Context) (int64, error) {
	userID, _ := c.Get(middleware.UserIDKey).(int64)
	if userID <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
