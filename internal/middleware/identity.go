package middleware

// identity.go holds the accessors for the caller identity JWTAuth stores
// in the Echo context. Handlers and the rate limiter read it from here.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated user id, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated role or "" for anonymous requests.
func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}

// currentUserID renders the caller for keys and logs; anonymous callers
// are "anon".
func currentUserID(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
