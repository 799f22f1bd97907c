package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AccessLog writes one line per request. Register it after RequestID so
// the id is available.
func AccessLog(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}

			status := c.Response().Status
			ev := log.Info()
			switch {
			case status >= 500:
				ev = log.Error()
			case status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("route", c.Path()).
				Int("status", status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("req_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("ip", c.RealIP()).
				Str("user", currentUserID(c)).
				Msg("http")
			return nil
		}
	}
}
