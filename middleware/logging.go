package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs one structured line per request.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := req.URL.Path
			query := req.URL.RawQuery

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)

			logger.Info("HTTP Request",
				zap.Int("status", c.Response().Status),
				zap.String("method", req.Method),
				zap.String("path", path),
				zap.String("query", query),
				zap.String("ip", c.RealIP()),
				zap.Duration("latency", latency),
				zap.String("user-agent", req.UserAgent()),
			)
			return nil
		}
	}
}
