package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger returns a middleware that logs every request with zerolog.
// Server errors log at error level, client errors at warn.
func RequestLogger() echo.MiddlewareFunc {
	return RequestLoggerWith(log.Logger)
}

// RequestLoggerWith is RequestLogger writing to the given logger
func RequestLoggerWith(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			var event *zerolog.Event
			switch {
			case res.Status >= 500:
				event = logger.Error().Err(err)
			case res.Status >= 400:
				event = logger.Warn()
			default:
				event = logger.Info()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID))
			if userID := GetUserID(c); userID != "" {
				event.Str("user_id", userID)
			}
			event.Msg("request")

			return nil
		}
	}
}
