package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/logging"
)

// ContextLogger puts a request-scoped logger into the request context so
// handlers can log with the request id attached.
func ContextLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.IntoContext(c.Request().Context(), l.With("request_id", reqID))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ErrorHandler renders every error as {"error": "..."}. Known conditions
// keep their status and message; anything unexpected becomes a generic
// 500 with the detail logged, never returned.
func ErrorHandler(l *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}

		if code == http.StatusInternalServerError {
			msg = "Internal server error"
			l.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"error": msg})
	}
}
