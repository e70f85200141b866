package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			entry := logger.WithFields(logrus.Fields{
				"method":  req.Method,
				"path":    req.URL.Path,
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			})
			if c.Response().Status >= 500 {
				entry.Warn("request")
			} else {
				entry.Info("request")
			}
			return nil
		}
	}
}
