package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/campusmed/campusmed/internal/platform/auth"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 response. The log line carries
// the request and caller so a crash inside a student-facing handler can be
// traced back to the submission that triggered it.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)

					rid, _ := c.Get("request_id").(string)
					evt := logger.Error().
						Str("request_id", rid).
						Str("method", c.Request().Method).
						Str("path", c.Request().URL.Path).
						Str("panic", fmt.Sprintf("%v", r)).
						Str("stack", string(stack[:n]))

					caller := auth.IdentityFromContext(c.Request().Context())
					if caller.UserID != "" {
						evt = evt.Str("user_id", caller.UserID)
					}
					if caller.IsStudent() {
						evt = evt.Str("student_id", caller.StudentID.String())
					}
					evt.Msg("panic recovered")

					err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
			}()
			return next(c)
		}
	}
}
