package http

import (
	"strconv"
	"time"

	"orderops/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latency per route template,
// so ids in the query string do not create new series.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.HTTPRequests.WithLabelValues(method, path, status).Inc()
			m.HTTPLatencyMS.WithLabelValues(method, path).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}
