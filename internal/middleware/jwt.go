package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/easycontent/contentgen/internal/service"
)

// Authenticator resolves bearer tokens and checks the admin gate.
// *service.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*service.Identity, error)
	RequireAdmin(id *service.Identity) error
}

// Authenticate rejects requests without a valid bearer token for an active
// user. Clients get the same 401 body whatever the reason; the reason is
// logged. On success the identity is stored on the context for handlers and
// the rate limiter.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			id, err := auth.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					c.Logger().Infof("auth: %s %s: %v", c.Request().Method, c.Path(), err)
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
				c.Logger().Errorf("auth: resolve identity: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}
