package middleware

// identity.go holds helpers shared across middleware files: extraction of
// the current user identity for cache and rate-limit key construction.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user id stored
// in context by JWTAuth, or "anon" for guests.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	}
	return "anon"
}
