package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"packaging-backend/internal/shared/metrics"
	"packaging-backend/internal/shared/telemetry"
)

// Logging emits one structured log line and one metrics sample per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordHTTP(c.Request.Method, c.FullPath(), status, latency)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"bytes":       c.Writer.Size(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id, ok := c.Get("recommendationId"); ok {
			fields["recommendation_id"] = id
		}
		telemetry.Info("request.complete", fields)
	}
}
