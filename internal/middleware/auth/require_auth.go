package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/token"
)

// ContextKey is where RequireAuth stores the authenticated user id.
const ContextKey = "userID"

type SimpleAuth struct {
	JWTSecret []byte
}

func NewSimpleAuth(secret []byte) *SimpleAuth {
	return &SimpleAuth{JWTSecret: secret}
}

// RequireAuth rejects the request before any handler or storage access
// when the Authorization header is absent, malformed, or carries a token
// that fails signature or expiry checks.
func (m *SimpleAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := token.FromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		userID, err := token.UserID(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		c.Set(ContextKey, userID)
		return next(c)
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextKey).(string)
	return id
}
