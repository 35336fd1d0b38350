package server

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"packaging-backend/internal/images"
	"packaging-backend/internal/recommend"
	"packaging-backend/internal/services/health"
	"packaging-backend/internal/shared/config"
	"packaging-backend/internal/shared/metrics"
	"packaging-backend/internal/shared/server/middleware"
	"packaging-backend/internal/shared/server/respond"
)

const uploadGroup = "UPLOAD"

// RouterDeps holds the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	ImageHandler     *images.Handler
	RecommendHandler *recommend.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	var pattern *regexp.Regexp
	if deps.Config.CORSAllowOriginPattern != "" {
		// validated by config.Load
		pattern = regexp.MustCompile(deps.Config.CORSAllowOriginPattern)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins:  deps.Config.CORSAllowOrigin,
			OriginPattern: pattern,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		st, ok := deps.Health.Check(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	limited := api.Group("")
	if rl := deps.Config.RateLimit; rl.RPS > 0 {
		burst := rl.Burst
		if burst <= 0 {
			burst = 1
		}
		limited.Use(middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: func(c *gin.Context) string {
				if c.FullPath() == "/api/v1/upload-image" {
					return uploadGroup
				}
				return ""
			},
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":   {Rate: rl.RPS, Burst: burst},
				uploadGroup: {Rate: rl.RPS / 2, Burst: max(1, burst/2)},
			},
		}))
	}
	if deps.ImageHandler != nil {
		deps.ImageHandler.RegisterRoutes(limited)
	}
	if deps.RecommendHandler != nil {
		deps.RecommendHandler.RegisterRoutes(limited)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
