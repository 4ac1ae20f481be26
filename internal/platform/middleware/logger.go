package middleware

import (
	"time"

	"github.com/campusmed/campusmed/internal/platform/auth"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger returns middleware that logs one line per request, including the
// authenticated caller when the auth middleware resolved one. Student
// requests carry student_id, staff requests carry user_id.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			// The auth middleware swaps the request to attach the caller, so
			// the identity is read from the post-handler request.
			caller := auth.IdentityFromContext(c.Request().Context())
			if caller.UserID != "" {
				evt = evt.Str("user_id", caller.UserID)
			}
			if caller.IsStudent() {
				evt = evt.Str("student_id", caller.StudentID.String())
			}

			evt.Msg("request")
			return err
		}
	}
}
