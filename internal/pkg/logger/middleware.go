package logger

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
)

// ZapEchoMiddleware logs every HTTP request handled by Echo.
func ZapEchoMiddleware(logger *ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Request().URL.Path
			raw := c.Request().URL.RawQuery

			err := next(c)

			latency := time.Since(start)
			statusCode := c.Response().Status
			clientIP := c.RealIP()
			method := c.Request().Method

			if raw != "" {
				path = path + "?" + raw
			}

			userID := "anonymous"
			if v := c.Get("user_id"); v != nil {
				userID = fmt.Sprintf("%v", v)
			}
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			fields := []Field{
				String("method", method),
				String("path", path),
				String("client_ip", clientIP),
				String("user_id", userID),
				String("request_id", requestID),
				Int("status", statusCode),
				Duration("latency", latency),
			}

			switch {
			case err != nil:
				logger.Error("HTTP request failed", append(fields, Err(err))...)
			case statusCode >= 500:
				logger.Error("HTTP request", fields...)
			case statusCode >= 400:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}

			return err
		}
	}
}
