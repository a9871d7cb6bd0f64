package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin must run after Authenticate. It checks the live admin flag of
// the user Authenticate loaded, not the flag embedded in the token.
func RequireAdmin(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.RequireAdmin(CurrentIdentity(c)); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": err.Error()})
			}
			return next(c)
		}
	}
}
