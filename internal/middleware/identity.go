package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/easycontent/contentgen/internal/service"
)

// Context keys set by Authenticate.
const (
	ctxIdentity   = "identity"
	ctxUser       = "user"
	ctxUserID     = "user_id"
	ctxTokenAdmin = "token_admin"
)

// CurrentIdentity returns the identity Authenticate stored on c, or nil on
// unauthenticated routes.
func CurrentIdentity(c echo.Context) *service.Identity {
	id, _ := c.Get(ctxIdentity).(*service.Identity)
	return id
}

func setIdentity(c echo.Context, id *service.Identity) {
	c.Set(ctxIdentity, id)
	c.Set(ctxUser, id.User)
	c.Set(ctxUserID, strconv.FormatUint(id.User.ID, 10))
	c.Set(ctxTokenAdmin, id.TokenAdmin)
}

// userID is the rate-limit key component for the caller: the user id when
// authenticated, "anon" otherwise.
func userID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
