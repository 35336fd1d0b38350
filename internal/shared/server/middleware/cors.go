package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists exact origins plus an optional origin pattern.
type CORSConfig struct {
	AllowOrigins  []string
	OriginPattern *regexp.Regexp
}

// CORS sets CORS headers and handles preflight requests.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	origins := make(map[string]struct{})
	for _, o := range cfg.AllowOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins[trimmed] = struct{}{}
		}
	}
	allowed := func(origin string) bool {
		if _, ok := origins[origin]; ok {
			return true
		}
		return cfg.OriginPattern != nil && cfg.OriginPattern.MatchString(origin)
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id, X-Recommendation-ID, Content-Disposition")
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
