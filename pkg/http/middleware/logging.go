package middleware

import (
	"time"

	applogger "AstroChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging emits one structured line per request. Scrapes of the
// metrics endpoint are skipped to keep the log readable.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if l == nil || req.URL.Path == "/metrics" {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			l.Info("http request",
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("duration_ms", time.Since(start)),
			)
			return err
		}
	}
}
