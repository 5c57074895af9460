package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roadassist/internal/observability"
)

// Observe logs each request as structured JSON and feeds the prometheus
// request counters. Panics are recovered into a 500 so nothing is fatal to
// the process.
func Observe(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"err", rec,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Internal server error",
					"error":   gin.H{"code": "INTERNAL", "message": "Internal server error"},
				})
			}

			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			status := c.Writer.Status()
			statusStr := strconv.Itoa(status)

			observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, statusStr).Inc()
			observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, statusStr).Observe(time.Since(start).Seconds())

			args := []any{
				"method", c.Request.Method,
				"route", route,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", c.ClientIP(),
			}
			if uid := c.GetInt64("user_id"); uid != 0 {
				args = append(args, "user_id", uid)
			}
			if rid := c.GetHeader("X-Request-ID"); rid != "" {
				args = append(args, "request_id", rid)
			}

			if status >= http.StatusInternalServerError {
				log.Error("http_request", args...)
			} else {
				log.Info("http_request", args...)
			}
		}()

		c.Next()
	}
}
